package transactease

const (
	HeaderAccessKey = "X-Auth-AccessKey"
	HeaderTimestamp = "X-Auth-Timestamp"
	HeaderNonce     = "X-Auth-Nonce"
	HeaderSignature = "X-Auth-Signature"
)

// Verdict is the outcome of a signature check. Reason is nil when Valid.
type Verdict struct {
	Valid  bool
	Reason error
}

func valid() Verdict {
	return Verdict{Valid: true}
}

func invalid(reason error) Verdict {
	return Verdict{Reason: reason}
}

// CallbackEnvelope is a server-to-server notification as received. Payload
// must be the raw body bytes, not a re-serialization.
type CallbackEnvelope struct {
	Method    string
	URI       string
	AccessKey string
	Timestamp string
	Nonce     string
	Payload   string
	Signature string
}

// StringToSign is METHOD|URI|TIMESTAMP|NONCE|PAYLOAD.
func (e CallbackEnvelope) StringToSign() string {
	return joinPipe(e.Method, e.URI, e.Timestamp, e.Nonce, e.Payload)
}

// ValidateCallback checks the X-Auth headers of a notification. It does not
// enforce any timestamp window or nonce uniqueness.
func (s *Signer) ValidateCallback(e CallbackEnvelope) Verdict {
	if e.Timestamp == "" || e.Nonce == "" || e.Signature == "" {
		return invalid(ErrMissingSignatureField)
	}
	if e.AccessKey != "" && !s.AccessKeyMatches(e.AccessKey) {
		return invalid(ErrInvalidAccessKey)
	}
	if !s.Verify(e.StringToSign(), e.Signature) {
		return invalid(ErrInvalidSignature)
	}
	return valid()
}

// SignCallback produces the signature a gateway would send for e.
func (s *Signer) SignCallback(e CallbackEnvelope) string {
	return s.Sign(e.StringToSign())
}
