package putt

// RenderHandle is an opaque token for a drawn path, passed back to the
// renderer for removal.
type RenderHandle string

// Renderer receives the winning path once planning completes. The surrounding
// app supplies the real implementation (the websocket layer streams frames to
// connected viewers); the core only ever calls Draw with the best attempt.
type Renderer interface {
	Draw(path []Vec3, target Vec3) []RenderHandle
	Clear(handles []RenderHandle)
}

// NopRenderer discards everything. Used when nobody is watching.
type NopRenderer struct{}

func (NopRenderer) Draw(path []Vec3, target Vec3) []RenderHandle { return nil }
func (NopRenderer) Clear(handles []RenderHandle)                 {}
