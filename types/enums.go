package types

type MediaKind string

const (
	MediaNone      MediaKind = ""
	MediaPhoto     MediaKind = "photo"
	MediaVideo     MediaKind = "video"
	MediaVideoNote MediaKind = "video_note"
	MediaVoice     MediaKind = "voice"
)

// Ext returns the file extension (with dot) used when storing this media kind.
func (k MediaKind) Ext() string {
	switch k {
	case MediaPhoto:
		return ".jpg"
	case MediaVideo, MediaVideoNote:
		return ".mp4"
	case MediaVoice:
		return ".ogg"
	default:
		return ""
	}
}

type AdminAction string

const (
	AdminActionNone        AdminAction = ""
	AdminActionGrantSub    AdminAction = "grant_sub"
	AdminActionRevokeSub   AdminAction = "revoke_sub"
	AdminActionAddAdmin    AdminAction = "add_admin"
	AdminActionRemoveAdmin AdminAction = "remove_admin"
)
