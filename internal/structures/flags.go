package structures

const (
	CommandRun       = "run"
	CommandUploadAll = "upload-all"
	CommandServe     = "serve"
)

type CliFlags struct {
	ConfigPath string
	DebugMode  bool
	Command    string
}
