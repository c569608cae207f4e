package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// LabelEncoder maps categorical labels to the integer codes used at
// training time. Code i corresponds to Classes()[i].
type LabelEncoder struct {
	classes []string
	index   map[string]int
}

type labelEncoderArtifact struct {
	Classes []string `json:"classes"`
}

func LoadLabelEncoder(path string) (*LabelEncoder, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading label encoder: %w", err)
	}
	var art labelEncoderArtifact
	if err := json.Unmarshal(payload, &art); err != nil {
		return nil, fmt.Errorf("decoding label encoder %s: %w", path, err)
	}
	return NewLabelEncoder(art.Classes)
}

func NewLabelEncoder(classes []string) (*LabelEncoder, error) {
	if len(classes) == 0 {
		return nil, errors.New("label encoder has no classes")
	}
	index := make(map[string]int, len(classes))
	for i, c := range classes {
		if _, dup := index[c]; dup {
			return nil, fmt.Errorf("duplicate class %q", c)
		}
		index[c] = i
	}
	return &LabelEncoder{
		classes: append([]string(nil), classes...),
		index:   index,
	}, nil
}

func (e *LabelEncoder) Classes() []string {
	return append([]string(nil), e.classes...)
}

func (e *LabelEncoder) Transform(label string) (int, error) {
	code, ok := e.index[label]
	if !ok {
		return 0, fmt.Errorf("unknown label %q", label)
	}
	return code, nil
}

func (e *LabelEncoder) InverseTransform(code int) (string, error) {
	if code < 0 || code >= len(e.classes) {
		return "", fmt.Errorf("code %d out of range [0,%d)", code, len(e.classes))
	}
	return e.classes[code], nil
}
