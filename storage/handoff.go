// Handoff: ephemeral keys bridging the capture surface and the orchestrator.

package storage

import (
	"context"
	"strconv"
	"time"

	"github.com/codescope/codescope/model"
)

// HandoffStore reads and writes the ephemeral capture keys. The capture
// surface writes the selected code and requested analysis type; the
// orchestrator entry point consumes them on load. The force flag is reset
// after a read so a forced re-run happens at most once.
type HandoffStore struct {
	kv KV
}

// NewHandoffStore creates a handoff store over kv.
func NewHandoffStore(kv KV) *HandoffStore {
	return &HandoffStore{kv: kv}
}

// Write records a captured selection.
func (h *HandoffStore) Write(ctx context.Context, code string, typ model.AnalysisType, force bool) error {
	if err := h.kv.Set(ctx, KeySelectedCode, code); err != nil {
		return err
	}
	if err := h.kv.Set(ctx, KeyAnalysisType, string(typ)); err != nil {
		return err
	}
	if err := h.kv.Set(ctx, KeyForceNew, strconv.FormatBool(force)); err != nil {
		return err
	}
	now := strconv.FormatInt(time.Now().UnixMilli(), 10)
	return h.kv.Set(ctx, KeyHandoffTime, now)
}

// Consume reads the current handoff and clears the force flag. The selected
// code itself stays in place so the user can re-run against the same
// selection.
func (h *HandoffStore) Consume(ctx context.Context) (model.Handoff, error) {
	var handoff model.Handoff

	code, _, err := h.kv.Get(ctx, KeySelectedCode)
	if err != nil {
		return handoff, err
	}
	handoff.SelectedCode = code

	rawType, _, err := h.kv.Get(ctx, KeyAnalysisType)
	if err != nil {
		return handoff, err
	}
	typ, err := model.ParseAnalysisType(rawType)
	if err != nil {
		typ = model.TypeCombined
	}
	handoff.AnalysisType = typ

	rawForce, ok, err := h.kv.Get(ctx, KeyForceNew)
	if err != nil {
		return handoff, err
	}
	if ok {
		handoff.Force = rawForce == "true"
		if handoff.Force {
			if err := h.kv.Set(ctx, KeyForceNew, "false"); err != nil {
				return handoff, err
			}
		}
	}

	rawTime, ok, err := h.kv.Get(ctx, KeyHandoffTime)
	if err != nil {
		return handoff, err
	}
	if ok {
		if ts, err := strconv.ParseInt(rawTime, 10, 64); err == nil {
			handoff.Timestamp = ts
		}
	}

	return handoff, nil
}
