package llm

import (
	"context"

	"github.com/ppiankov/curator/internal/model"
)

// StaticLabeler returns fixed labels by URL. Items it does not know keep any
// stance they already carry and are otherwise neutral.
type StaticLabeler struct {
	ByURL map[string]Label
}

// Name returns "static"
func (s *StaticLabeler) Name() string {
	return "static"
}

// Label looks each item up by URL
func (s *StaticLabeler) Label(ctx context.Context, req LabelRequest) ([]Label, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	labels := make([]Label, len(req.Evidence))
	for i, ev := range req.Evidence {
		if l, ok := s.ByURL[ev.URL]; ok {
			labels[i] = l
			continue
		}
		stance := ev.Stance
		if stance == "" {
			stance = model.StanceNeutral
		}
		labels[i] = Label{Stance: stance, Confidence: ev.StanceConfidence}
	}
	return labels, nil
}
