package transactease

import (
	"context"
	"fmt"
	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"strings"
	"time"
)

const (
	statusMsgType  = "GET_TRANSACTION_STATUS"
	statusVersion  = "1.0.0"
	msgTimeLayout  = "20060102150405"
	defaultTimeout = 10 * time.Second
)

type MsgInfo struct {
	VersionNo string `json:"VersionNo"`
	MsgID     string `json:"MsgID"`
	TimeStamp string `json:"TimeStamp"`
	MsgType   string `json:"MsgType"`
	InsID     string `json:"InsID"`
}

type statusRequestData struct {
	RequestID      string `json:"RequestID"`
	MerchantUserID string `json:"MerchantUserID"`
}

type statusRequest struct {
	MsgInfo MsgInfo           `json:"MsgInfo"`
	MsgData statusRequestData `json:"MsgData"`
}

type TransactionStatus struct {
	ResponseCode               ResponseCode `json:"ResponseCode"`
	ResponseDescription        string       `json:"ResponseDescription"`
	RequestID                  string       `json:"RequestID"`
	TransactionID              string       `json:"TransactionID"`
	TransactionReferenceNumber string       `json:"TransactionReferenceNumber"`
	Amount                     Amount       `json:"Amount"`
	Status                     string       `json:"Status"`
}

type StatusResponse struct {
	MsgInfo MsgInfo           `json:"MsgInfo"`
	MsgData TransactionStatus `json:"MsgData"`
}

// StatusClient queries the gateway transaction status API.
type StatusClient struct {
	gateway *Gateway
	http    *resty.Client
}

func NewStatusClient(gateway *Gateway, client *resty.Client) *StatusClient {
	if client == nil {
		client = resty.New()
	}
	client.SetTimeout(defaultTimeout)
	client.SetBaseURL(gateway.cfg.BaseURL)

	return &StatusClient{gateway: gateway, http: client}
}

// TransactionStatus posts a signed status query. The body is marshalled once
// and the same bytes are signed and sent.
func (c *StatusClient) TransactionStatus(ctx context.Context, requestID, accessToken string) (*StatusResponse, error) {
	if requestID == "" {
		return nil, fmt.Errorf("%w: RequestID", ErrMissingField)
	}

	now := c.gateway.now().UTC()
	msgID := "M" + now.Format(msgTimeLayout) + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:6])

	body, err := json.Marshal(statusRequest{
		MsgInfo: MsgInfo{
			VersionNo: statusVersion,
			MsgID:     msgID,
			TimeStamp: now.Format(msgTimeLayout),
			MsgType:   statusMsgType,
			InsID:     c.gateway.cfg.InstitutionID,
		},
		MsgData: statusRequestData{
			RequestID:      requestID,
			MerchantUserID: c.gateway.cfg.MerchantUserID,
		},
	})
	if err != nil {
		return nil, err
	}

	timestamp := now.Format(signedDateTimeLayout)
	signature := c.gateway.signer.Sign(joinPipe("POST", TransactionStatusPath, timestamp, msgID, string(body)))

	req := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetHeader(HeaderAccessKey, c.gateway.cfg.AccessKey).
		SetHeader(HeaderTimestamp, timestamp).
		SetHeader(HeaderNonce, msgID).
		SetHeader(HeaderSignature, signature).
		SetBody(body)
	if accessToken != "" {
		req.SetAuthToken(accessToken)
	}

	resp, err := req.Post(TransactionStatusPath)
	if err != nil {
		return nil, fmt.Errorf("transaction status request: %w", err)
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return nil, fmt.Errorf("transaction status returned %d: %s", resp.StatusCode(), string(resp.Body()))
	}

	var out StatusResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("decode transaction status: %w", err)
	}

	return &out, nil
}
