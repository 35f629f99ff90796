package transactease

import (
	"fmt"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"strconv"
	"strings"
	"time"
)

const (
	signedDateTimeLayout = "2006-01-02T15:04:05"
	requestIDLayout      = "20060102150405"
)

// PaymentSignedFields is the gateway's signing order for a hosted payment
// request. SignedFields and Signature are never part of it.
var PaymentSignedFields = []string{
	"MerchantUserID", "AccessKey", "Channel", "RequestID", "PaymentMethod",
	"Amount", "Currency", "InvoiceNo", "BillToAddressLine1", "BillToAddressLine2",
	"BillToAddressCity", "BillToAddressPostalCode", "BillToAddressState",
	"BillToAddressCountry", "BillToForename", "BillToSurname", "BillToPhone",
	"BillToEmail", "ExpiredInSeconds", "Remark", "UserDefined1", "UserDefined2",
	"UserDefined3", "UserDefined4", "UserDefined5", "SignedDateTime",
}

type Field struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type Fields []Field

// Get returns the first field named name.
func (fs Fields) Get(name string) (string, bool) {
	for _, f := range fs {
		if f.Name == name {
			return f.Value, true
		}
	}
	return "", false
}

func (fs Fields) Value(name string) string {
	v, _ := fs.Get(name)
	return v
}

func (fs Fields) Map() map[string]string {
	m := make(map[string]string, len(fs))
	for _, f := range fs {
		if _, ok := m[f.Name]; !ok {
			m[f.Name] = f.Value
		}
	}
	return m
}

// canonical renders name=value pairs joined by commas, in order.
func (fs Fields) canonical() string {
	parts := make([]string, len(fs))
	for i, f := range fs {
		parts[i] = f.Name + "=" + f.Value
	}
	return strings.Join(parts, ",")
}

// SignedRequest is a form ready to be posted to the hosted payment page.
// Fields holds the input fields, then SignedFields, then Signature.
type SignedRequest struct {
	Fields       Fields `json:"fields"`
	StringToSign string `json:"-"`
	Signature    string `json:"signature"`
}

func (r *SignedRequest) RequestID() string {
	return r.Fields.Value("RequestID")
}

// SignForm signs fields in signedFields order. RequestID and SignedDateTime
// are read from fields to build the string to sign.
func (s *Signer) SignForm(fields []Field, signedFields []string) (*SignedRequest, error) {
	all := Fields(fields)

	signed := make(Fields, 0, len(signedFields))
	for _, name := range signedFields {
		v, ok := all.Get(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingField, name)
		}
		signed = append(signed, Field{Name: name, Value: v})
	}

	stringToSign := joinPipe(
		"POST",
		PaymentRequestPath,
		all.Value("SignedDateTime"),
		all.Value("RequestID"),
		signed.canonical(),
	)
	signature := s.Sign(stringToSign)

	out := make(Fields, 0, len(fields)+2)
	out = append(out, fields...)
	out = append(out,
		Field{Name: "SignedFields", Value: strings.Join(signedFields, ",")},
		Field{Name: "Signature", Value: signature},
	)

	return &SignedRequest{
		Fields:       out,
		StringToSign: stringToSign,
		Signature:    signature,
	}, nil
}

// PaymentRequest is the customer and order data for one hosted payment.
type PaymentRequest struct {
	Amount        decimal.Decimal
	InvoiceNo     string
	CustomerName  string
	CustomerPhone string
	CustomerEmail string
	AddressLine1  string
	AddressLine2  string
	City          string
	PostalCode    string
	State         string
	Country       string
	Remark        string
	UserDefined   [5]string
	SuccessURL    string
	CancelURL     string
}

func (r *PaymentRequest) applyDefaults() {
	if r.AddressLine1 == "" {
		r.AddressLine1 = "Yangon"
	}
	if r.AddressLine2 == "" {
		r.AddressLine2 = "Myanmar"
	}
	if r.City == "" {
		r.City = "Yangon"
	}
	if r.PostalCode == "" {
		r.PostalCode = "11211"
	}
	if r.State == "" {
		r.State = "Yangon"
	}
	if r.Country == "" {
		r.Country = "MM"
	}
	if r.Remark == "" {
		r.Remark = "eSIM Purchase"
	}
}

// SplitName splits on the first space. A single word is used for both parts.
func SplitName(name string) (forename, surname string) {
	parts := strings.SplitN(strings.TrimSpace(name), " ", 2)
	if len(parts) == 1 || strings.TrimSpace(parts[1]) == "" {
		return parts[0], parts[0]
	}
	return parts[0], strings.TrimSpace(parts[1])
}

// NewRequestID returns REQ + yyyyMMddHHmmss + 6 upper hex characters.
func NewRequestID(t time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	return "REQ" + t.Format(requestIDLayout) + suffix
}

type GatewayOption func(*Gateway)

func WithClock(now func() time.Time) GatewayOption {
	return func(g *Gateway) {
		g.now = now
	}
}

func WithRequestIDGenerator(gen func(time.Time) string) GatewayOption {
	return func(g *Gateway) {
		g.newRequestID = gen
	}
}

// Gateway binds a merchant Config to its Signer.
type Gateway struct {
	cfg          Config
	signer       *Signer
	now          func() time.Time
	newRequestID func(time.Time) string
}

func NewGateway(cfg Config, opts ...GatewayOption) (*Gateway, error) {
	cfg = cfg.WithDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	signer, err := NewSigner(cfg.AccessKey, cfg.SecretKey)
	if err != nil {
		return nil, err
	}

	g := &Gateway{
		cfg:          cfg,
		signer:       signer,
		now:          time.Now,
		newRequestID: NewRequestID,
	}
	for _, opt := range opts {
		opt(g)
	}

	return g, nil
}

func (g *Gateway) Config() Config {
	return g.cfg
}

func (g *Gateway) Signer() *Signer {
	return g.signer
}

// BuildPaymentForm assembles and signs the hosted payment form. SuccessURL
// and CancelURL are sent unsigned when set.
func (g *Gateway) BuildPaymentForm(req PaymentRequest) (*SignedRequest, error) {
	req.applyDefaults()

	if req.Amount.IsNegative() || req.Amount.IsZero() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAmount, req.Amount.String())
	}

	now := g.now().UTC()
	forename, surname := SplitName(req.CustomerName)

	fields := []Field{
		{Name: "MerchantUserID", Value: g.cfg.MerchantUserID},
		{Name: "AccessKey", Value: g.cfg.AccessKey},
		{Name: "Channel", Value: g.cfg.Channel},
		{Name: "RequestID", Value: g.newRequestID(now)},
		{Name: "PaymentMethod", Value: g.cfg.PaymentMethods},
		{Name: "Amount", Value: req.Amount.StringFixed(2)},
		{Name: "Currency", Value: g.cfg.Currency},
		{Name: "InvoiceNo", Value: req.InvoiceNo},
		{Name: "BillToAddressLine1", Value: req.AddressLine1},
		{Name: "BillToAddressLine2", Value: req.AddressLine2},
		{Name: "BillToAddressCity", Value: req.City},
		{Name: "BillToAddressPostalCode", Value: req.PostalCode},
		{Name: "BillToAddressState", Value: req.State},
		{Name: "BillToAddressCountry", Value: req.Country},
		{Name: "BillToForename", Value: forename},
		{Name: "BillToSurname", Value: surname},
		{Name: "BillToPhone", Value: req.CustomerPhone},
		{Name: "BillToEmail", Value: req.CustomerEmail},
		{Name: "ExpiredInSeconds", Value: strconv.Itoa(g.cfg.ExpiredInSeconds)},
		{Name: "Remark", Value: req.Remark},
		{Name: "UserDefined1", Value: req.UserDefined[0]},
		{Name: "UserDefined2", Value: req.UserDefined[1]},
		{Name: "UserDefined3", Value: req.UserDefined[2]},
		{Name: "UserDefined4", Value: req.UserDefined[3]},
		{Name: "UserDefined5", Value: req.UserDefined[4]},
		{Name: "SignedDateTime", Value: now.Format(signedDateTimeLayout)},
	}
	if req.SuccessURL != "" {
		fields = append(fields, Field{Name: "SuccessURL", Value: req.SuccessURL})
	}
	if req.CancelURL != "" {
		fields = append(fields, Field{Name: "CancelURL", Value: req.CancelURL})
	}

	return g.signer.SignForm(fields, PaymentSignedFields)
}
