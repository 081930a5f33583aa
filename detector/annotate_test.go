package detector

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"reflect"
	"testing"
)

func TestToDetectionList(t *testing.T) {
	data := []byte(`[{"label":"cat","score":0.91,"box":[10,20,110,220.5]}]`)
	result, err := toDetectionList(data)
	if err != nil {
		t.Fatalf("toDetectionList: %v", err)
	}
	want := DetectionList{{Label: "cat", Score: 0.91, Box: [4]float64{10, 20, 110, 220.5}}}
	if !reflect.DeepEqual(result, want) {
		t.Errorf("result = %+v, want %+v", result, want)
	}

	if _, err := toDetectionList([]byte("not json")); err == nil {
		t.Error("expected an error for malformed output")
	}
}

func TestLabels(t *testing.T) {
	detections := []Detection{
		{Label: "cat"}, {Label: "dog"}, {Label: "cat"},
	}
	want := []string{"cat", "dog", "cat"}
	if got := Labels(detections); !reflect.DeepEqual(got, want) {
		t.Errorf("Labels = %v, want %v (duplicates must be kept)", got, want)
	}
	if got := Labels(nil); len(got) != 0 {
		t.Errorf("Labels(nil) = %v, want empty", got)
	}
}

func TestAnnotateDrawsBoxOutline(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 64, 48))
	draw.Draw(src, src.Bounds(), &image.Uniform{color.White}, image.Point{}, draw.Src)
	var encoded bytes.Buffer
	if err := png.Encode(&encoded, src); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}

	var annotated bytes.Buffer
	box := [4]float64{8, 8, 32, 32}
	err := Annotate(&encoded, []Detection{{Label: "cat", Score: 0.9, Box: box}}, "png", &annotated)
	if err != nil {
		t.Fatalf("Annotate: %v", err)
	}

	result, err := png.Decode(&annotated)
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	if result.Bounds() != src.Bounds() {
		t.Errorf("annotated bounds = %v, want %v", result.Bounds(), src.Bounds())
	}
	assertRed := func(x, y int) {
		t.Helper()
		r, g, b, _ := result.At(x, y).RGBA()
		if r>>8 != 255 || g>>8 != 0 || b>>8 != 0 {
			t.Errorf("pixel (%d,%d) = %v, want box outline", x, y, result.At(x, y))
		}
	}
	assertRed(8, 8)   // top-left corner
	assertRed(20, 8)  // top edge
	assertRed(8, 20)  // left edge
	assertRed(32, 32) // bottom-right corner

	// Inside the box stays untouched
	r, g, b, _ := result.At(20, 20).RGBA()
	if r>>8 != 255 || g>>8 != 255 || b>>8 != 255 {
		t.Errorf("pixel (20,20) = %v, want white", result.At(20, 20))
	}
}

func TestAnnotateBoxOutsideBounds(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 16, 16))
	var encoded bytes.Buffer
	if err := png.Encode(&encoded, src); err != nil {
		t.Fatalf("png.Encode: %v", err)
	}
	var annotated bytes.Buffer
	// Box partially out of the image must not panic
	err := Annotate(&encoded, []Detection{{Box: [4]float64{-10, -10, 100, 100}}}, "png", &annotated)
	if err != nil {
		t.Fatalf("Annotate: %v", err)
	}
}

func TestAnnotateRejectsGarbage(t *testing.T) {
	var out bytes.Buffer
	if err := Annotate(bytes.NewReader([]byte("not an image")), nil, "jpeg", &out); err == nil {
		t.Error("expected a decode error")
	}
}
