// Package storage records runs on disk: metadata.json plus com.csv and
// bones.csv per run directory.
package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/san-kum/ragdoll/internal/sim"
	"github.com/san-kum/ragdoll/internal/spatial"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Model      string             `json:"model"`
	Timestamp  time.Time          `json:"timestamp"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Integrator string             `json:"integrator"`
	Control    string             `json:"control"`
	Steps      int                `json:"steps"`
	Bodies     int                `json:"bodies"`
	Effectors  int                `json:"effectors"`
	Metrics    map[string]float64 `json:"metrics"`
	Errors     []string           `json:"errors,omitempty"`
}

// COMRow is one line of com.csv.
type COMRow struct {
	Time  float64
	Model string
	COM   mgl64.Vec3
	Input [4]float64
}

// BoneRow is one line of bones.csv. Local is parent-relative.
type BoneRow struct {
	Time     float64
	Model    string
	Bone     string
	Parent   string
	Position mgl64.Vec3
	Rotation mgl64.Quat
	World    mgl64.Vec3
}

var (
	comHeader  = []string{"time", "model", "x", "y", "z", "in_x", "in_y", "in_z", "in_pitch"}
	boneHeader = []string{"time", "model", "bone", "parent", "x", "y", "z", "qw", "qx", "qy", "qz", "wx", "wy", "wz"}
)

// Save writes result under a new run id, which it returns. meta's ID,
// Timestamp, Steps and Metrics are filled in.
func (s *Store) Save(meta RunMetadata, result *sim.Result) (string, error) {
	meta.ID = uuid.NewString()
	meta.Timestamp = time.Now()
	meta.Steps = result.StepsTaken
	meta.Metrics = result.Metrics
	for _, err := range result.Errors {
		meta.Errors = append(meta.Errors, err.Error())
	}

	runDir := filepath.Join(s.baseDir, meta.ID)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	if err := writeJSON(filepath.Join(runDir, "metadata.json"), meta); err != nil {
		return "", err
	}

	com := [][]string{comHeader}
	bones := [][]string{boneHeader}
	for _, sample := range result.Samples {
		t := formatFloat(sample.Time)
		in := sample.Input
		com = append(com, append([]string{t, sample.Model}, formatFloats(
			sample.COM.X(), sample.COM.Y(), sample.COM.Z(), in.X, in.Y, in.Z, in.Pitch)...))

		for _, b := range sample.Bones {
			q, p := spatial.Decompose(b.Local)
			w := spatial.Position(b.World)
			bones = append(bones, append([]string{t, sample.Model, b.Name, b.Parent}, formatFloats(
				p.X(), p.Y(), p.Z(), q.W, q.V.X(), q.V.Y(), q.V.Z(), w.X(), w.Y(), w.Z())...))
		}
	}

	if err := writeCSV(filepath.Join(runDir, "com.csv"), com); err != nil {
		return "", err
	}
	if err := writeCSV(filepath.Join(runDir, "bones.csv"), bones); err != nil {
		return "", err
	}
	return meta.ID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeCSV(path string, records [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(records); err != nil {
		return err
	}
	return f.Sync()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func formatFloats(vs ...float64) []string {
	out := make([]string, len(vs))
	for i, v := range vs {
		out[i] = formatFloat(v)
	}
	return out
}

// List returns every readable run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool { return runs[i].Timestamp.After(runs[j].Timestamp) })
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

func (s *Store) readCSV(runID, name string, fields int) ([][]string, error) {
	file, err := os.Open(filepath.Join(s.baseDir, runID, name))
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = fields
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[1:], nil
}

func parseFloats(fields []string) ([]float64, error) {
	out := make([]float64, len(fields))
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (s *Store) LoadCOM(runID string) ([]COMRow, error) {
	records, err := s.readCSV(runID, "com.csv", len(comHeader))
	if err != nil {
		return nil, err
	}
	rows := make([]COMRow, 0, len(records))
	for i, rec := range records {
		t, err := strconv.ParseFloat(rec[0], 64)
		if err != nil {
			return nil, fmt.Errorf("com.csv line %d: %w", i+2, err)
		}
		v, err := parseFloats(rec[2:])
		if err != nil {
			return nil, fmt.Errorf("com.csv line %d: %w", i+2, err)
		}
		rows = append(rows, COMRow{
			Time:  t,
			Model: rec[1],
			COM:   mgl64.Vec3{v[0], v[1], v[2]},
			Input: [4]float64{v[3], v[4], v[5], v[6]},
		})
	}
	return rows, nil
}

func (s *Store) LoadBones(runID string) ([]BoneRow, error) {
	records, err := s.readCSV(runID, "bones.csv", len(boneHeader))
	if err != nil {
		return nil, err
	}
	rows := make([]BoneRow, 0, len(records))
	for i, rec := range records {
		t, err := strconv.ParseFloat(rec[0], 64)
		if err != nil {
			return nil, fmt.Errorf("bones.csv line %d: %w", i+2, err)
		}
		v, err := parseFloats(rec[4:])
		if err != nil {
			return nil, fmt.Errorf("bones.csv line %d: %w", i+2, err)
		}
		rows = append(rows, BoneRow{
			Time:     t,
			Model:    rec[1],
			Bone:     rec[2],
			Parent:   rec[3],
			Position: mgl64.Vec3{v[0], v[1], v[2]},
			Rotation: mgl64.Quat{W: v[3], V: mgl64.Vec3{v[4], v[5], v[6]}},
			World:    mgl64.Vec3{v[7], v[8], v[9]},
		})
	}
	return rows, nil
}

// BoneTrack returns one bone's world positions over time.
func BoneTrack(rows []BoneRow, bone string) []mgl64.Vec3 {
	var out []mgl64.Vec3
	for _, r := range rows {
		if r.Bone == bone {
			out = append(out, r.World)
		}
	}
	return out
}
