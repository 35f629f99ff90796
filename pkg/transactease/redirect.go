package transactease

import "github.com/valyala/fasthttp"

const (
	ParamRequestID      = "RequestID"
	ParamTransactionRef = "TransactionReferenceNumber"
	ParamTransactionID  = "TransactionID"
	ParamSignature      = "Signature"
)

// RedirectEnvelope is a browser redirect back from the hosted page. Params
// keep the order in which they appeared in the query string.
type RedirectEnvelope struct {
	Method    string
	URI       string
	RequestID string
	Params    Fields
	Signature string
}

// StringToSign is METHOD|URI|REQUEST_ID|k=v,... with Signature removed.
func (e RedirectEnvelope) StringToSign() string {
	params := make(Fields, 0, len(e.Params))
	for _, p := range e.Params {
		if p.Name == ParamSignature {
			continue
		}
		params = append(params, p)
	}
	return joinPipe(e.Method, e.URI, e.RequestID, params.canonical())
}

func (e RedirectEnvelope) signature() string {
	if e.Signature != "" {
		return e.Signature
	}
	return e.Params.Value(ParamSignature)
}

func (e RedirectEnvelope) requestID() string {
	if e.RequestID != "" {
		return e.RequestID
	}
	return e.Params.Value(ParamRequestID)
}

// ValidateRedirect checks a success or cancel redirect. RequestID and
// Signature fall back to the matching query params when left empty.
func (s *Signer) ValidateRedirect(e RedirectEnvelope) Verdict {
	e.RequestID = e.requestID()
	sig := e.signature()
	if e.RequestID == "" || sig == "" {
		return invalid(ErrMissingSignatureField)
	}
	if !s.Verify(e.StringToSign(), sig) {
		return invalid(ErrInvalidSignature)
	}
	return valid()
}

func (s *Signer) SignRedirect(e RedirectEnvelope) string {
	e.RequestID = e.requestID()
	return s.Sign(e.StringToSign())
}

// ParseOrderedQuery decodes a raw query string keeping parameter order and
// duplicates.
func ParseOrderedQuery(raw string) Fields {
	args := fasthttp.AcquireArgs()
	defer fasthttp.ReleaseArgs(args)

	args.Parse(raw)
	return FieldsFromArgs(args)
}

// FieldsFromArgs copies fasthttp args in order.
func FieldsFromArgs(args *fasthttp.Args) Fields {
	fields := make(Fields, 0, args.Len())
	args.VisitAll(func(key, value []byte) {
		fields = append(fields, Field{Name: string(key), Value: string(value)})
	})
	return fields
}
