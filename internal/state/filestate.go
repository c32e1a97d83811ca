package state

// FileState tracks the media lifecycle of one message.
//
//	Unrequested -> Downloading -> Downloaded | DownloadFailed
//	Downloaded  -> Loading     -> Loaded     | LoadFailed      (images and stickers)
type FileState int

const (
	Unrequested FileState = iota
	Downloading
	Downloaded
	DownloadFailed
	Loading
	Loaded
	LoadFailed
)

func (s FileState) String() string {
	switch s {
	case Downloading:
		return "downloading"
	case Downloaded:
		return "downloaded"
	case DownloadFailed:
		return "download failed"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case LoadFailed:
		return "load failed"
	default:
		return "unrequested"
	}
}

// OnDisk reports whether the file exists locally in this state.
func (s FileState) OnDisk() bool {
	switch s {
	case Downloaded, Loading, Loaded, LoadFailed:
		return true
	}
	return false
}

// Failed reports whether the state is terminal failure.
func (s FileState) Failed() bool {
	return s == DownloadFailed || s == LoadFailed
}
