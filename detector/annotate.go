package detector

import (
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"
)

const boxOutlineWidth = 3

var boxOutlineColor = color.RGBA{R: 255, A: 255}

// Annotate decodes the source image, draws the bounding box of every
// detection and re-encodes the result. format is "png" for PNG output,
// anything else encodes JPEG.
func Annotate(reader io.Reader, detections []Detection, format string, writer io.Writer) error {
	src, _, err := image.Decode(reader)
	if err != nil {
		return err
	}
	canvas := image.NewRGBA(src.Bounds())
	draw.Draw(canvas, canvas.Bounds(), src, src.Bounds().Min, draw.Src)
	for _, d := range detections {
		drawBox(canvas, d.Box)
	}
	if format == "png" {
		return png.Encode(writer, canvas)
	}
	return jpeg.Encode(writer, canvas, &jpeg.Options{Quality: 90})
}

func drawBox(canvas *image.RGBA, box [4]float64) {
	x1, y1 := int(box[IndexX1]), int(box[IndexY1])
	x2, y2 := int(box[IndexX2]), int(box[IndexY2])
	for w := 0; w < boxOutlineWidth; w++ {
		drawHLine(canvas, x1, x2, y1+w)
		drawHLine(canvas, x1, x2, y2-w)
		drawVLine(canvas, x1+w, y1, y2)
		drawVLine(canvas, x2-w, y1, y2)
	}
}

func drawHLine(canvas *image.RGBA, x1, x2, y int) {
	bounds := canvas.Bounds()
	if y < bounds.Min.Y || y >= bounds.Max.Y {
		return
	}
	for x := max(x1, bounds.Min.X); x <= min(x2, bounds.Max.X-1); x++ {
		canvas.Set(x, y, boxOutlineColor)
	}
}

func drawVLine(canvas *image.RGBA, x, y1, y2 int) {
	bounds := canvas.Bounds()
	if x < bounds.Min.X || x >= bounds.Max.X {
		return
	}
	for y := max(y1, bounds.Min.Y); y <= min(y2, bounds.Max.Y-1); y++ {
		canvas.Set(x, y, boxOutlineColor)
	}
}
