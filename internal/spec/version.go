package spec

const (
	// Version of the detection result document written by the detect command.
	// Bump it when a field is renamed or removed.
	Version = "1.0"
)
