package detector

import "encoding/json"

const (
	IndexX1 = 0
	IndexY1 = 1
	IndexX2 = 2
	IndexY2 = 3
)

type (
	// Detection is one object instance found in an image. Box is
	// [x1, y1, x2, y2] in source-image pixel space.
	Detection struct {
		Label string     `json:"label"`
		Score float64    `json:"score"`
		Box   [4]float64 `json:"box"`
	}
	DetectionList []Detection
)

// Detector is the object-detection model boundary: given the path of a
// stored image, return every detected instance. Implementations are
// constructed once at startup and shared between requests.
type Detector interface {
	Detect(imgPath string) ([]Detection, error)
}

func toDetectionList(data []byte) (result DetectionList, err error) {
	err = json.Unmarshal(data, &result)
	return result, err
}

// Labels returns the label of each detection, in detection order,
// duplicates included.
func Labels(detections []Detection) []string {
	labels := make([]string, 0, len(detections))
	for _, d := range detections {
		labels = append(labels, d.Label)
	}
	return labels
}
