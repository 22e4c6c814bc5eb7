// Package imagesource provides a rowpack.AspectRatioSource backed by image
// files.
//
// Only image headers are read: Load decodes each file's configuration
// concurrently and keeps its pixel dimensions. JPEG, PNG, GIF, BMP, TIFF and
// WebP are supported.
//
//	src, err := imagesource.Dir(ctx, "photos", imagesource.WithFullRow(0))
//	if err != nil {
//		return err
//	}
//	calc := rowpack.New(src, rowpack.WithContentWidth(1080))
package imagesource
