package wa

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/matheus3301/whatsterm/internal/store"
	"go.mau.fi/whatsmeow"
)

// downloadInfoVersion is bumped on any change to DownloadInfo.
const downloadInfoVersion = 1

// ErrBadFileID is returned when a file ID cannot be decoded.
var ErrBadFileID = errors.New("wa: malformed file id")

// DownloadInfo is everything needed to fetch and decrypt a media file
// later, serialized as a message's remote file ID.
type DownloadInfo struct {
	Version       int                 `json:"version"`
	DirectPath    string              `json:"direct_path"`
	MediaKey      []byte              `json:"media_key"`
	MediaType     whatsmeow.MediaType `json:"media_type"`
	Size          int                 `json:"size"`
	FileEncSHA256 []byte              `json:"file_enc_sha256"`
	FileSHA256    []byte              `json:"file_sha256"`
}

type sizedMessage interface {
	GetFileLength() uint64
}

// EncodeFileID builds the file ID for a downloadable message.
func EncodeFileID(msg whatsmeow.DownloadableMessage) (string, error) {
	info := DownloadInfo{
		Version:       downloadInfoVersion,
		DirectPath:    msg.GetDirectPath(),
		MediaKey:      msg.GetMediaKey(),
		MediaType:     whatsmeow.GetMediaType(msg),
		Size:          -1,
		FileEncSHA256: msg.GetFileEncSHA256(),
		FileSHA256:    msg.GetFileSHA256(),
	}
	if sized, ok := msg.(sizedMessage); ok {
		info.Size = int(sized.GetFileLength())
	}
	if info.MediaType == "" || info.DirectPath == "" {
		return "", fmt.Errorf("%w: missing media type or path", ErrBadFileID)
	}
	b, err := json.Marshal(info)
	if err != nil {
		return "", fmt.Errorf("marshal download info: %w", err)
	}
	return string(b), nil
}

// DecodeFileID parses a file ID built by EncodeFileID.
func DecodeFileID(fileID string) (DownloadInfo, error) {
	var info DownloadInfo
	if err := json.Unmarshal([]byte(fileID), &info); err != nil {
		return info, fmt.Errorf("%w: %v", ErrBadFileID, err)
	}
	if info.Version != downloadInfoVersion {
		return info, fmt.Errorf("%w: version %d", ErrBadFileID, info.Version)
	}
	return info, nil
}

var mimeExt = map[string]string{
	"image/jpeg":      "jpg",
	"image/png":       "png",
	"image/gif":       "gif",
	"image/webp":      "webp",
	"video/mp4":       "mp4",
	"video/3gpp":      "3gp",
	"audio/ogg":       "ogg",
	"audio/mpeg":      "mp3",
	"audio/mp4":       "m4a",
	"application/pdf": "pdf",
}

var kindExt = map[store.FileKind]string{
	store.FileImage:    "jpg",
	store.FileVideo:    "mp4",
	store.FileAudio:    "ogg",
	store.FileSticker:  "webp",
	store.FileDocument: "bin",
}

// mediaPath returns the file name, relative to the media directory, that a
// message's attachment is stored under.
func mediaPath(msgID string, kind store.FileKind, mimetype, fileName string) string {
	ext := ""
	if kind == store.FileDocument && fileName != "" {
		ext = strings.TrimPrefix(filepath.Ext(fileName), ".")
	}
	if ext == "" {
		mt, _, _ := strings.Cut(mimetype, ";")
		ext = mimeExt[strings.TrimSpace(mt)]
	}
	if ext == "" {
		ext = kindExt[kind]
	}
	name := strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' {
			return '_'
		}
		return r
	}, msgID)
	return name + "." + strings.ToLower(ext)
}
