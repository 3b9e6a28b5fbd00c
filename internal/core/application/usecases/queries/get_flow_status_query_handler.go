package queries

import (
	"context"

	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
)

// FlowStatusResponse reports the flow milestones in seconds of order age
// and the last finished sweep, if any.
type FlowStatusResponse struct {
	ConfirmAfterSeconds   int64          `json:"confirmAfterSeconds"`
	PreparingAfterSeconds int64          `json:"preparingAfterSeconds"`
	ReadyAfterSeconds     int64          `json:"readyAfterSeconds"`
	LastRun               *ports.FlowRun `json:"lastRun"`
}

type GetFlowStatusQueryHandler struct {
	policy services.FlowPolicy
	runs   ports.FlowRunStore
}

func NewGetFlowStatusQueryHandler(policy services.FlowPolicy, runs ports.FlowRunStore) GetFlowStatusQueryHandler {
	return GetFlowStatusQueryHandler{policy: policy, runs: runs}
}

func (h GetFlowStatusQueryHandler) Handle(_ context.Context, query GetFlowStatusQuery) (FlowStatusResponse, error) {
	if err := query.Validate(); err != nil {
		return FlowStatusResponse{}, err
	}

	response := FlowStatusResponse{
		ConfirmAfterSeconds:   int64(h.policy.ConfirmAfter().Seconds()),
		PreparingAfterSeconds: int64(h.policy.PreparingAfter().Seconds()),
		ReadyAfterSeconds:     int64(h.policy.ReadyAfter().Seconds()),
	}
	if last, ok := h.runs.Last(); ok {
		response.LastRun = &last
	}
	return response, nil
}
