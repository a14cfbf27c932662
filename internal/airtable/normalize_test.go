package airtable

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Optinet-Solutions-Automation/Pearl-View-LeadGeneration/internal/lead"
)

func TestNormalizeFormRecord(t *testing.T) {
	rec := Record{
		ID: "recForm1",
		Fields: Fields{
			ClientName:     "Jane Citizen",
			LeadSource:     "Google Ads",
			LeadStatus:     "Quoted",
			InquirySubject: "Exterior windows, two storeys",
			InquiryDate:    "2025-08-28 09:50:08",
			PhoneNumber:    "0400 111 222",
			Email:          "jane@example.com",
			Address:        "1 Beach Rd",
			PropertyType:   "Residential",
			WindowCount:    24,
			Stories:        2,
			QuoteAmount:    480,
		},
	}

	l := Normalize(rec)
	assert.Equal(t, "recForm1", l.ID)
	assert.Equal(t, "recForm1", l.RemoteID)
	assert.Equal(t, "Jane Citizen", l.Name)
	assert.Equal(t, lead.SourceForm1, l.Source)
	assert.Equal(t, "LP1", l.LP)
	assert.False(t, l.HasCall)
	assert.Equal(t, lead.StatusQuoted, l.Status)
	assert.Equal(t, 55, l.Progress)
	assert.Equal(t, "Exterior windows, two storeys", l.Subject)
	assert.Equal(t, "0400 111 222", l.Phone)
	assert.Equal(t, "1 Beach Rd", l.Address)
	assert.Equal(t, 24, l.Windows)
	assert.Equal(t, 2, l.Stories)
	assert.Equal(t, 480.0, l.Value)
	assert.False(t, lead.Unknown(l.DateAt))
	assert.Equal(t, "2025-08-28 09:50:08", l.Date)
}

func TestNormalizeSecondSiteCallRecord(t *testing.T) {
	rec := Record{
		ID: "recCall2",
		Fields: Fields{
			ClientName:     "Bob Renter",
			CallerID:       "+61 400 333 444",
			CallTime:       "Friday, 29 Aug 2025, 9:50 am",
			CallLeadSource: "pearlviewwindows.com.au",
			LeadStatus:     "Contacted",
			Transcript:     "Asked about gutter add-on",
			CallDuration:   "4m12s",
		},
	}

	l := Normalize(rec)
	assert.Equal(t, lead.SourceCall2, l.Source)
	assert.Equal(t, "LP2", l.LP)
	assert.True(t, l.HasCall)
	assert.Equal(t, lead.StatusContacted, l.Status)
	assert.Equal(t, 30, l.Progress)
	assert.Equal(t, "Asked about gutter add-on", l.Subject)
	assert.Equal(t, "+61 400 333 444", l.Phone, "caller id backfills phone")
	assert.Equal(t, "4m12s", l.Duration)
	assert.False(t, lead.Unknown(l.DateAt))
}

func TestNormalizePlaceholderNames(t *testing.T) {
	form := Normalize(Record{ID: "r1", Fields: Fields{LeadSource: "Google"}})
	assert.Equal(t, "Unknown", form.Name)

	call := Normalize(Record{ID: "r2", Fields: Fields{CallerID: "+61 400 000 000"}})
	assert.Equal(t, "Unknown Caller", call.Name)
}

func TestNormalizeEmptyRecordNeverFails(t *testing.T) {
	l := Normalize(Record{ID: "rEmpty"})

	assert.Equal(t, "Unknown", l.Name)
	assert.Equal(t, lead.SourceForm1, l.Source)
	assert.Equal(t, "LP1", l.LP)
	assert.Equal(t, lead.StatusNew, l.Status)
	assert.Equal(t, 10, l.Progress)
	assert.Zero(t, l.Windows)
	assert.Zero(t, l.Value)
	assert.False(t, l.Starred)
	assert.Empty(t, l.Notes)
	assert.True(t, lead.Unknown(l.DateAt))
}

func TestNormalizeUnknownStatusDefaultsToNew(t *testing.T) {
	l := Normalize(Record{ID: "r3", Fields: Fields{ClientName: "X", LeadStatus: "Ghosted"}})
	assert.Equal(t, lead.StatusNew, l.Status)
	assert.Equal(t, 10, l.Progress)
}

func TestFieldsDecodeTolerance(t *testing.T) {
	raw := `{
		"Client Name": 42,
		"Estimated Window Count": "18",
		"Stories": "not a number",
		"Quote Amount": 350.5,
		"Lead Status": "New",
		"Phone Number": {"nested": true}
	}`
	var f Fields
	require.NoError(t, json.Unmarshal([]byte(raw), &f))

	assert.Equal(t, Text("42"), f.ClientName)
	assert.Equal(t, Number(18), f.WindowCount)
	assert.Equal(t, Number(0), f.Stories)
	assert.Equal(t, Number(350.5), f.QuoteAmount)
	assert.Equal(t, Text(""), f.PhoneNumber)
}
