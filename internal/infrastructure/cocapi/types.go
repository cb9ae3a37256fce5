package cocapi

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// fetchRequest is the body of a lot window request
type fetchRequest struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// fetchResponse is the feed's envelope. Status is false when the feed
// refuses the request.
type fetchResponse struct {
	Status flexBool    `json:"status"`
	Data   []lotRecord `json:"data"`
}

// lotRecord is one COC document as the feed emits it. The feed is loose
// about JSON types, so every field is read as text.
type lotRecord struct {
	ID             flexString `json:"id"`
	StoreName      flexString `json:"store_name"`
	MaterialName   flexString `json:"material_name"`
	Brand          flexString `json:"brand"`
	ProductType    flexString `json:"product_type"`
	LotBatchNo     flexString `json:"lot_batch_no"`
	COCQty         flexString `json:"coc_qty"`
	InvoiceNo      flexString `json:"invoice_no"`
	InvoiceQty     flexString `json:"invoice_qty"`
	InvoiceDate    flexString `json:"invoice_date"`
	EntryDate      flexString `json:"entry_date"`
	Username       flexString `json:"username"`
	COCDocumentURL flexString `json:"coc_document_url"`
	IQCDocumentURL flexString `json:"iqc_document_url"`
}

// flexString accepts a JSON string, number, bool or null
type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*s = ""
	case len(b) > 0 && b[0] == '"':
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = flexString(strings.TrimSpace(v))
	default:
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			var v bool
			if err := json.Unmarshal(b, &v); err != nil {
				return err
			}
			*s = flexString(strconv.FormatBool(v))
			return nil
		}
		*s = flexString(n.String())
	}
	return nil
}

// flexBool accepts true/false, 1/0 and their string forms
type flexBool bool

func (f *flexBool) UnmarshalJSON(b []byte) error {
	var s flexString
	if err := s.UnmarshalJSON(b); err != nil {
		return err
	}
	switch strings.ToLower(string(s)) {
	case "true", "1", "success", "ok":
		*f = true
	default:
		*f = false
	}
	return nil
}
