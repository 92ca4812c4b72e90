package observer

import (
	"github.com/flowforge/waveengine/internal/node"
)

// Observer adapts a workflow run's lifecycle hooks into broadcast events
// for one execution, without the engine itself knowing anything about
// websockets.
type Observer struct {
	hub         *Hub
	executionID string
}

func NewObserver(hub *Hub, executionID string) *Observer {
	return &Observer{hub: hub, executionID: executionID}
}

// OnNodeStart matches workflowengine.Config.OnNodeStart.
func (o *Observer) OnNodeStart(id, nodeType string) {
	e := newEvent(EventNodeStarted, o.executionID)
	e.NodeID = id
	e.NodeType = nodeType
	o.hub.Broadcast(e)
}

// OnNodeComplete matches workflowengine.Config.OnNodeComplete.
func (o *Observer) OnNodeComplete(id string, result node.Result) {
	e := newEvent(EventNodeCompleted, o.executionID)
	e.NodeID = id
	e.Output = result.Output
	o.hub.Broadcast(e)
}

// OnNodeError matches workflowengine.Config.OnNodeError.
func (o *Observer) OnNodeError(id string, err error) {
	e := newEvent(EventNodeFailed, o.executionID)
	e.NodeID = id
	e.Error = err.Error()
	o.hub.Broadcast(e)
}

// OnRetry matches the OnRetry signature shared by executor.Config and
// workflowengine.Config/NodeConfigOverride. nodeID is bound via closure
// at wiring time since the shared signature only carries attempt and err.
func (o *Observer) OnRetry(nodeID string) func(attempt int, err error) {
	return func(attempt int, err error) {
		e := newEvent(EventNodeRetrying, o.executionID)
		e.NodeID = nodeID
		e.AttemptNumber = attempt
		e.Error = err.Error()
		o.hub.Broadcast(e)
	}
}
