package header

const (
	// Accept is HTTP header for "Accept"
	Accept = "Accept"
	// ApplicationJSON is HTTP header value for "application/json"
	ApplicationJSON = "application/json"
	// ApplicationJoseJSON is HTTP header value for "application/jose+json"
	ApplicationJoseJSON = "application/jose+json"
	// ApplicationGRPC is HTTP header value for "application/grpc"
	ApplicationGRPC = "application/grpc"
	// ApplicationTimestampQuery is HTTP header value for RFC3161 Timestamp request
	ApplicationTimestampQuery = "application/timestamp-query"
	// ApplicationTimestampReply is HTTP header value for RFC3161 Timestamp response
	ApplicationTimestampReply = "application/timestamp-reply"
	// Authorization is HTTP header for "Authorization"
	Authorization = "Authorization"
	// Bearer is token type for "Authorization" header
	Bearer = "Bearer"
	// CacheControl is HTTP header for "Cache-Control"
	CacheControl = "Cache-Control"
	// ContentDisposition is HTTP header for "Content-Disposition"
	ContentDisposition = "Content-Disposition"
	// ContentLength is HTTP header for "Content-Length"
	ContentLength = "Content-Length"
	// ContentType is HTTP header for "Content-Type"
	ContentType = "Content-Type"
	// IfMatch is HTTP header for "If-Match"
	IfMatch = "If-Match"
	// Link is HTTP header for "Link"
	Link = "Link"
	// Location is HTTP header for "Location"
	Location = "Location"
	// ReplayNonce is HTTP header for "Replay-Nonce"
	ReplayNonce = "Replay-Nonce"
	// TextPlain is HTTP header value for "text/plain"
	TextPlain = "text/plain"
	// UserAgent is HTTP header value for "User-Agent"
	UserAgent = "User-Agent"
	// XHostname contains the name of the HTTP header to indicate which host requested the signature
	XHostname = "X-HostName"
	// XIdentity is HTTP header for "X-Identity"
	XIdentity = "X-Identity"
	// XCorrelationID is HTTP header for "X-Correlation-ID"
	XCorrelationID = "X-Correlation-ID"
	// XDeviceID is HTTP header for "X-Device-ID"
	XDeviceID = "X-Device-ID"
	// XFilename contains the name of the artifact to sign
	XFilename = "X-Filename"
	// XForwardedProto contains the protocol
	XForwardedProto = "X-Forwarded-Proto"
)
