package preview

// The host page and the sandboxed frame talk over postMessage. The host
// forwards an export request into the frame, which captures its own DOM and
// triggers the download locally so the generated code never leaves the
// sandbox. The constants here are injected into both HTML documents, so the
// two sides always agree on the wire strings.

// MessageType identifies a postMessage envelope.
type MessageType string

const (
	// MsgExportImage is sent by the host page to request a screenshot.
	MsgExportImage MessageType = "EXPORT_IMAGE"
	// MsgCaptureScreenshot is relayed into the frame, which performs the
	// capture.
	MsgCaptureScreenshot MessageType = "CAPTURE_SCREENSHOT"
)

// ImageFormat is the screenshot encoding.
type ImageFormat string

const (
	FormatPNG  ImageFormat = "png"
	FormatJPEG ImageFormat = "jpeg"
)

// JPEGQuality is the encoder quality used for JPEG captures.
const JPEGQuality = 0.95
