package ws

import (
	"fmt"
	"sync/atomic"

	"github.com/greenread/backend/internal/putt"
)

var handleCounter uint64

// PathRenderer implements putt.Renderer by streaming drawn paths to the
// viewers of one session. Handles are opaque ids viewers echo back in their
// own scene management; Clear broadcasts a removal frame for them.
type PathRenderer struct {
	SessionToken string
}

// NewRenderer is the session.RendererFactory wired in at startup.
func NewRenderer(sessionToken string) putt.Renderer {
	return &PathRenderer{SessionToken: sessionToken}
}

type pathDrawnFrame struct {
	Type    string              `json:"type"`
	Handles []putt.RenderHandle `json:"handles"`
	Path    []putt.Vec3         `json:"path"`
	Target  putt.Vec3           `json:"target"`
}

type pathClearedFrame struct {
	Type    string              `json:"type"`
	Handles []putt.RenderHandle `json:"handles"`
}

func (r *PathRenderer) Draw(path []putt.Vec3, target putt.Vec3) []putt.RenderHandle {
	id := atomic.AddUint64(&handleCounter, 1)
	handles := []putt.RenderHandle{putt.RenderHandle(fmt.Sprintf("path-%d", id))}

	RenderHub.BroadcastToSession(r.SessionToken, pathDrawnFrame{
		Type:    "path_drawn",
		Handles: handles,
		Path:    path,
		Target:  target,
	})
	return handles
}

func (r *PathRenderer) Clear(handles []putt.RenderHandle) {
	if len(handles) == 0 {
		return
	}
	RenderHub.BroadcastToSession(r.SessionToken, pathClearedFrame{
		Type:    "path_cleared",
		Handles: handles,
	})
}
