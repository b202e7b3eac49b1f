package sim

// A Result is the value an entity reports after a run.
type Result struct {
	Entity string
	Port   string
	Data   *IO
}

// MakeResult snapshots the given port of an entity.
func MakeResult(e Entity, port string) (Result, bool) {
	io, found := e.IOS().Snapshot(port)
	if !found {
		return Result{}, false
	}

	return Result{
		Entity: e.Name(),
		Port:   port,
		Data:   io,
	}, true
}
