package common

const (
	// AccessTokenHeaderName is the gRPC metadata key used to carry the
	// access token on outbound requests.
	AccessTokenHeaderName = "access_token"

	// DestinationHeaderName carries the user-confirmed save path of a
	// streamed SaveVideo call.
	DestinationHeaderName = "x-destination"

	// DefaultVideoName is offered by save dialogs when nothing else is known.
	DefaultVideoName = "video.mp4"

	// VideoMimeType is the container type of every recorded clip.
	VideoMimeType = "video/mp4"
)
