// Package mmqr decodes, validates and generates Myanmar QR (MMQR) payment
// strings, the EMVCo merchant-presented QR profile used by Myanmar wallets.
package mmqr

import (
	"EsimMyanmar/pkg/crc16"
	"EsimMyanmar/pkg/tlv"
	jsoniter "github.com/json-iterator/go"
	"github.com/shopspring/decimal"
)

const (
	TagPayloadFormat     = "00"
	TagPointOfInitiation = "01"
	TagMerchantAccount   = "26"
	TagMerchantCategory  = "52"
	TagCurrency          = "53"
	TagAmount            = "54"
	TagCountryCode       = "58"
	TagMerchantName      = "59"
	TagMerchantCity      = "60"
	TagPostalCode        = "61"
	TagAdditionalData    = "62"
	TagCRC               = "63"

	SubTagMerchantDomain = "00"
	SubTagMerchantID     = "01"
	SubTagOrderReference = "05"

	CurrencyMMK = "104"
	CountryMM   = "MM"

	// ESIMPrice is the list price of one eSIM profile in MMK.
	ESIMPrice = 120000

	crcPrefix = TagCRC + "04"
	minLength = 20
)

var tagNames = map[string]string{
	TagPayloadFormat:     "payload_format",
	TagPointOfInitiation: "point_of_initiation",
	TagMerchantAccount:   "merchant_account_info",
	TagMerchantCategory:  "merchant_category_code",
	TagCurrency:          "currency",
	TagAmount:            "amount",
	TagCountryCode:       "country_code",
	TagMerchantName:      "merchant_name",
	TagMerchantCity:      "merchant_city",
	TagPostalCode:        "postal_code",
	TagAdditionalData:    "additional_data",
	TagCRC:               "crc",
}

func tagName(tag string) string {
	if name, ok := tagNames[tag]; ok {
		return name
	}
	return "unknown"
}

// Data is the decoded form of one MMQR string. A new value is built on every
// Decode call and the package never touches it afterwards. Nested and raw
// records are only reachable through accessors that return copies.
type Data struct {
	PayloadFormat        string              `json:"payload_format"`
	PointOfInitiation    string              `json:"point_of_initiation"`
	MerchantAccount      string              `json:"merchant_account"`
	MerchantID           string              `json:"merchant_id"`
	MerchantCategoryCode string              `json:"merchant_category_code"`
	MerchantName         string              `json:"merchant_name"`
	MerchantCity         string              `json:"merchant_city"`
	PostalCode           string              `json:"postal_code"`
	Currency             string              `json:"currency"`
	Amount               decimal.NullDecimal `json:"amount"`
	CountryCode          string              `json:"country_code"`
	CRC                  string              `json:"crc"`
	Raw                  string              `json:"raw_data"`

	additional map[string]string
	records    tlv.Records
}

// OrderReference is the order id carried under additional data sub-tag 05.
func (d *Data) OrderReference() string {
	return d.additional[SubTagOrderReference]
}

// AdditionalData returns a copy of the tag 62 sub-tags.
func (d *Data) AdditionalData() map[string]string {
	out := make(map[string]string, len(d.additional))
	for k, v := range d.additional {
		out[k] = v
	}
	return out
}

func (d *Data) MarshalJSON() ([]byte, error) {
	type plain Data
	return jsoniter.Marshal(struct {
		plain
		AdditionalData map[string]string `json:"additional_data"`
	}{
		plain:          plain(*d),
		AdditionalData: d.additional,
	})
}

// Records returns a copy of the top-level records in wire order, unknown tags
// included.
func (d *Data) Records() tlv.Records {
	out := make(tlv.Records, len(d.records))
	copy(out, d.records)
	return out
}

// Encode re-encodes the decoded records. For any string accepted by Decode
// without a trailing fragment the result is byte-identical to Raw.
func (d *Data) Encode() (string, error) {
	return d.records.Encode()
}

// ExpectedCRC recomputes the checksum over every record preceding tag 63 plus
// the "6304" prefix. It reports false when tag 63 is absent, is not the final
// record, or does not carry four characters.
func (d *Data) ExpectedCRC() (string, bool) {
	n := len(d.records)
	if n == 0 {
		return "", false
	}

	last := d.records[n-1]
	if last.Tag != TagCRC || len(last.Value) != 4 {
		return "", false
	}

	body, err := d.records[:n-1].Encode()
	if err != nil {
		return "", false
	}

	return crc16.SumString(body + crcPrefix), true
}

// CRCValid reports whether tag 63 matches the recomputed checksum.
func (d *Data) CRCValid() bool {
	expected, ok := d.ExpectedCRC()
	return ok && expected == d.CRC
}

// Merchant is the fixed merchant identity written into generated codes.
type Merchant struct {
	Domain       string
	ID           string
	CategoryCode string
	Name         string
	City         string
	PostalCode   string
}

func DefaultMerchant() Merchant {
	return Merchant{
		Domain:       "com.mmqrpay.www",
		ID:           "223511010015222",
		CategoryCode: "4812",
		Name:         "ESIM Myanmar",
		City:         "Yangon",
		PostalCode:   "11051",
	}
}
