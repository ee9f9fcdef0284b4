package dispatchnode

import (
	"fmt"
	"strings"

	contractx "github.com/tanpawarit/realty-assistant/agent/contract"
)

func FinalizeReply(in *GraphState) (GraphOutput, error) {
	if in == nil {
		return GraphOutput{}, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	if strings.TrimSpace(in.Result.Response) == "" {
		return GraphOutput{}, fmt.Errorf("%w: empty reply", contractx.ErrValidation)
	}
	if in.Result.ToolUsed == "" {
		return GraphOutput{}, fmt.Errorf("%w: reply has no tool", contractx.ErrValidation)
	}
	return GraphOutput{Result: in.Result}, nil
}
