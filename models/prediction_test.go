package models

import (
	"errors"
	"testing"
	"time"

	"predictor/db"
	"predictor/detector"

	"gorm.io/gorm"
)

func mustCreateSession(t *testing.T, uid string, timestamp int64, detections []detector.Detection) {
	t.Helper()
	session := PredictionSession{
		Uid:            uid,
		Timestamp:      timestamp,
		OriginalImage:  "original/" + uid + ".jpg",
		PredictedImage: "predicted/" + uid + ".jpg",
	}
	if err := session.Create(); err != nil {
		t.Fatalf("session.Create(%s): %v", uid, err)
	}
	if err := CreateDetectionObjects(uid, detections); err != nil {
		t.Fatalf("CreateDetectionObjects(%s): %v", uid, err)
	}
}

func TestPredictionSessionRoundTrip(t *testing.T) {
	setupTestDB(t)
	now := time.Now().Unix()
	box := [4]float64{10, 20, 110, 220.5}
	mustCreateSession(t, "uid-1", now, []detector.Detection{
		{Label: "cat", Score: 0.91, Box: box},
		{Label: "dog", Score: 0.47, Box: [4]float64{1, 2, 3, 4}},
	})

	s, err := PredictionSessionByUid("uid-1")
	if err != nil {
		t.Fatalf("PredictionSessionByUid: %v", err)
	}
	if s.Uid != "uid-1" || s.UserID != nil {
		t.Errorf("unexpected session %+v", s)
	}
	if len(s.DetectionObjects) != 2 {
		t.Fatalf("detections = %d, want 2", len(s.DetectionObjects))
	}
	d := s.DetectionObjects[0]
	if d.Label != "cat" || d.Score != 0.91 || d.GetBox() != box {
		t.Errorf("detection round trip mismatch: %+v, box %v", d, d.GetBox())
	}

	if _, err := PredictionSessionByUid("no-such"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("missing uid err = %v, want ErrRecordNotFound", err)
	}
}

func TestPredictionSessionNoDetections(t *testing.T) {
	setupTestDB(t)
	mustCreateSession(t, "uid-empty", time.Now().Unix(), nil)
	s, err := PredictionSessionByUid("uid-empty")
	if err != nil {
		t.Fatalf("PredictionSessionByUid: %v", err)
	}
	if len(s.DetectionObjects) != 0 {
		t.Errorf("detections = %d, want 0", len(s.DetectionObjects))
	}
}

func TestDeletePredictionSession(t *testing.T) {
	setupTestDB(t)
	mustCreateSession(t, "uid-del", time.Now().Unix(), []detector.Detection{
		{Label: "cat", Score: 0.9, Box: [4]float64{1, 2, 3, 4}},
	})

	s, err := DeletePredictionSession("uid-del")
	if err != nil {
		t.Fatalf("first delete: %v", err)
	}
	if s.OriginalImage != "original/uid-del.jpg" {
		t.Errorf("deleted session paths not returned: %+v", s)
	}
	// Children must not outlive the parent
	var orphans int64
	db.Instance.Model(&DetectionObject{}).Where("prediction_uid = ?", "uid-del").Count(&orphans)
	if orphans != 0 {
		t.Errorf("orphaned detections = %d, want 0", orphans)
	}

	// Second and third attempts are not-found, not silent success
	if _, err := DeletePredictionSession("uid-del"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("second delete err = %v, want ErrRecordNotFound", err)
	}
	if _, err := DeletePredictionSession("uid-del"); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("third delete err = %v, want ErrRecordNotFound", err)
	}
}

func TestPredictionCountSince(t *testing.T) {
	setupTestDB(t)
	now := time.Now().Unix()
	cutoff := now - 7*86400
	mustCreateSession(t, "uid-old", cutoff-10, nil)
	mustCreateSession(t, "uid-new1", now-10, nil)
	mustCreateSession(t, "uid-new2", now, nil)

	count, err := PredictionCountSince(cutoff)
	if err != nil {
		t.Fatalf("PredictionCountSince: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
}

func TestDistinctLabelsSince(t *testing.T) {
	setupTestDB(t)
	now := time.Now().Unix()
	cutoff := now - 7*86400
	mustCreateSession(t, "uid-a", now, []detector.Detection{
		{Label: "cat", Score: 0.9, Box: [4]float64{1, 2, 3, 4}},
		{Label: "dog", Score: 0.8, Box: [4]float64{1, 2, 3, 4}},
	})
	mustCreateSession(t, "uid-b", now, []detector.Detection{
		{Label: "cat", Score: 0.7, Box: [4]float64{1, 2, 3, 4}},
	})
	mustCreateSession(t, "uid-c", cutoff-100, []detector.Detection{
		{Label: "zebra", Score: 0.99, Box: [4]float64{1, 2, 3, 4}},
	})

	labels, err := DistinctLabelsSince(cutoff)
	if err != nil {
		t.Fatalf("DistinctLabelsSince: %v", err)
	}
	if len(labels) != 2 {
		t.Fatalf("labels = %v, want 2 distinct entries", labels)
	}
	seen := map[string]bool{}
	for _, l := range labels {
		seen[l] = true
	}
	if !seen["cat"] || !seen["dog"] || seen["zebra"] {
		t.Errorf("labels = %v, want cat+dog only", labels)
	}
}

func TestAverageDetectionScoreSince(t *testing.T) {
	setupTestDB(t)
	now := time.Now().Unix()
	cutoff := now - 7*86400

	avg, err := AverageDetectionScoreSince(cutoff)
	if err != nil {
		t.Fatalf("AverageDetectionScoreSince: %v", err)
	}
	if avg != 0.0 {
		t.Errorf("empty average = %v, want 0.0", avg)
	}

	for i, score := range []float64{0.9, 0.8, 0.7} {
		mustCreateSession(t, "uid-avg-"+string(rune('a'+i)), now, []detector.Detection{
			{Label: "cat", Score: score, Box: [4]float64{1, 2, 3, 4}},
		})
	}
	avg, err = AverageDetectionScoreSince(cutoff)
	if err != nil {
		t.Fatalf("AverageDetectionScoreSince: %v", err)
	}
	if avg < 0.7999 || avg > 0.8001 {
		t.Errorf("average = %v, want 0.8", avg)
	}
}

func TestMostCommonLabelsSince(t *testing.T) {
	setupTestDB(t)
	now := time.Now().Unix()
	cutoff := now - 7*86400
	mustCreateSession(t, "uid-1", now, []detector.Detection{
		{Label: "dog", Score: 0.9, Box: [4]float64{1, 2, 3, 4}},
		{Label: "cat", Score: 0.9, Box: [4]float64{1, 2, 3, 4}},
		{Label: "cat", Score: 0.8, Box: [4]float64{1, 2, 3, 4}},
	})
	mustCreateSession(t, "uid-2", now, []detector.Detection{
		{Label: "ant", Score: 0.5, Box: [4]float64{1, 2, 3, 4}},
		{Label: "bee", Score: 0.5, Box: [4]float64{1, 2, 3, 4}},
	})

	counts, err := MostCommonLabelsSince(cutoff, 3)
	if err != nil {
		t.Fatalf("MostCommonLabelsSince: %v", err)
	}
	want := []LabelCount{{"cat", 2}, {"ant", 1}, {"bee", 1}}
	if len(counts) != len(want) {
		t.Fatalf("counts = %+v, want %+v", counts, want)
	}
	for i := range want {
		if counts[i] != want[i] {
			t.Errorf("counts[%d] = %+v, want %+v (ties must break on label name)", i, counts[i], want[i])
		}
	}
}

func TestPredictionSessionsByLabelAndScore(t *testing.T) {
	setupTestDB(t)
	now := time.Now().Unix()
	// Two cat detections in one session: the session must appear once
	mustCreateSession(t, "uid-cats", now, []detector.Detection{
		{Label: "cat", Score: 0.9, Box: [4]float64{1, 2, 3, 4}},
		{Label: "cat", Score: 0.95, Box: [4]float64{1, 2, 3, 4}},
	})
	mustCreateSession(t, "uid-dog", now, []detector.Detection{
		{Label: "dog", Score: 0.4, Box: [4]float64{1, 2, 3, 4}},
	})

	byLabel, err := PredictionSessionsByLabel("cat")
	if err != nil {
		t.Fatalf("PredictionSessionsByLabel: %v", err)
	}
	if len(byLabel) != 1 || byLabel[0].Uid != "uid-cats" {
		t.Errorf("byLabel = %+v, want single uid-cats", byLabel)
	}

	none, err := PredictionSessionsByLabel("zebra")
	if err != nil {
		t.Fatalf("PredictionSessionsByLabel(zebra): %v", err)
	}
	if len(none) != 0 {
		t.Errorf("byLabel(zebra) = %+v, want empty", none)
	}

	byScore, err := PredictionSessionsByMinScore(0.5)
	if err != nil {
		t.Fatalf("PredictionSessionsByMinScore: %v", err)
	}
	if len(byScore) != 1 || byScore[0].Uid != "uid-cats" {
		t.Errorf("byScore = %+v, want single uid-cats", byScore)
	}
}
