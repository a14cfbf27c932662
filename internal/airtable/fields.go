package airtable

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Record is one raw row from the remote table. Fields decodes into a
// strict optional-field struct at this boundary so nothing downstream
// touches untyped maps.
type Record struct {
	ID          string `json:"id"`
	CreatedTime string `json:"createdTime"`
	Fields      Fields `json:"fields"`
}

// Fields mirrors the upstream column vocabulary for both intake
// channels. Column names are reproduced exactly, including the
// misspelled "Adress" the form variant writes.
type Fields struct {
	ClientName      Text   `json:"Client Name"`
	CallerID        Text   `json:"Caller ID"`
	CallTime        Text   `json:"Call Time"`
	CallLeadSource  Text   `json:"Call - Lead Source"`
	LeadSource      Text   `json:"Lead Source"`
	LeadStatus      Text   `json:"Lead Status"`
	Transcript      Text   `json:"Call Recording Transcript"`
	InquirySubject  Text   `json:"Inquiry Subject/Reason"`
	InquiryDate     Text   `json:"Inquiry Date"`
	PhoneNumber     Text   `json:"Phone Number"`
	Email           Text   `json:"Email"`
	Address         Text   `json:"Adress"`
	ServiceAddress  Text   `json:"Service Address"`
	PropertyType    Text   `json:"Property Type"`
	PropertyDetails Text   `json:"Property Details"`
	WindowCount     Number `json:"Estimated Window Count"`
	Stories         Number `json:"Stories"`
	QuoteAmount     Number `json:"Quote Amount"`
	InvoiceAmount   Number `json:"Final Invoice Amount"`
	CallDuration    Text   `json:"Call Duration"`
	NextFollowUp    Text   `json:"Next Follow-up Date"`
	ScheduledDate   Text   `json:"Scheduled Cleaning Date"`
}

// Text tolerates the loose typing of upstream cells: strings are taken
// as-is, numbers and booleans are rendered, anything else is treated
// as absent. A single odd cell must never fail a whole page decode.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = Text(s)
		return nil
	}
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		*t = ""
		return nil
	}
	switch x := v.(type) {
	case float64:
		*t = Text(strconv.FormatFloat(x, 'f', -1, 64))
	case bool:
		*t = Text(strconv.FormatBool(x))
	default:
		*t = ""
	}
	return nil
}

// Number tolerates numeric cells arriving as numbers or numeric
// strings; absent or non-numeric values decode to zero.
type Number float64

func (n *Number) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "null" {
		*n = 0
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			*n = 0
			return nil
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			*n = 0
			return nil
		}
		*n = Number(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		*n = 0
		return nil
	}
	*n = Number(v)
	return nil
}
