package debate

import "context"

// ExportVersion identifies the export document layout.
const ExportVersion = "1"

// Export is a self-contained, replayable snapshot of debates.
type Export struct {
	Version    string           `json:"version"`
	ExportedAt string           `json:"exported_at"`
	Debates    []ExportedDebate `json:"debates"`
}

// ExportedDebate is one debate with its full argument log.
type ExportedDebate struct {
	Debate    Debate     `json:"debate"`
	Arguments []Argument `json:"arguments"`
}

// Export dumps the debates named by ids, or every debate when ids is empty.
func (s *Service) Export(ctx context.Context, ids ...string) (*Export, error) {
	if len(ids) == 0 {
		all, err := s.store.ListDebates(ctx, ListOptions{})
		if err != nil {
			return nil, err
		}
		for _, d := range all {
			ids = append(ids, d.ID)
		}
	}

	out := &Export{Version: ExportVersion, ExportedAt: now(), Debates: []ExportedDebate{}}
	for _, id := range ids {
		d, err := s.store.GetDebate(ctx, id)
		if err != nil {
			return nil, err
		}
		args, err := s.store.ListArguments(ctx, id)
		if err != nil {
			return nil, err
		}
		out.Debates = append(out.Debates, ExportedDebate{Debate: *d, Arguments: args})
	}
	return out, nil
}
