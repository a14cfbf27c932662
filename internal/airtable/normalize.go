package airtable

import (
	"strings"

	"github.com/Optinet-Solutions-Automation/Pearl-View-LeadGeneration/internal/lead"
)

// Records whose lead-source text mentions the second property are
// classified as the second site's variant of their channel.
const secondSiteMarker = "pearlview"

// Normalize maps one raw upstream record into the canonical lead
// model. It never fails: missing or unrecognized fields resolve to
// placeholders and zero values so one bad row cannot sink a batch.
//
// A record counts as a call iff it carries a caller id or a call
// time; that discriminator decides which channel-specific columns are
// consulted. Phone and address fall back across both vocabularies.
func Normalize(rec Record) lead.Lead {
	f := rec.Fields
	isCall := f.CallerID != "" || f.CallTime != ""

	rawSource := string(f.LeadSource)
	if isCall {
		rawSource = string(f.CallLeadSource)
	}
	secondSite := strings.Contains(strings.ToLower(rawSource), secondSiteMarker)
	var source lead.Source
	switch {
	case isCall && secondSite:
		source = lead.SourceCall2
	case isCall:
		source = lead.SourceCall1
	case secondSite:
		source = lead.SourceForm2
	default:
		source = lead.SourceForm1
	}

	name := strings.TrimSpace(string(f.ClientName))
	if name == "" {
		if isCall {
			name = "Unknown Caller"
		} else {
			name = "Unknown"
		}
	}

	subject := string(f.InquirySubject)
	rawDate := string(f.InquiryDate)
	if isCall {
		subject = string(f.Transcript)
		rawDate = string(f.CallTime)
	}

	phone := string(f.PhoneNumber)
	if phone == "" {
		phone = string(f.CallerID)
	}
	address := string(f.Address)
	if address == "" {
		address = string(f.ServiceAddress)
	}

	status := lead.FromRemoteLabel(string(f.LeadStatus))

	return lead.Lead{
		ID:       rec.ID,
		Name:     name,
		Source:   source,
		LP:       source.LP(),
		Phone:    phone,
		Email:    string(f.Email),
		Address:  address,
		Subject:  subject,
		Date:     rawDate,
		DateAt:   lead.ParseDate(rawDate),
		JobType:  string(f.PropertyType),
		Windows:  int(f.WindowCount),
		Stories:  int(f.Stories),
		Details:  string(f.PropertyDetails),
		Value:    float64(f.QuoteAmount),
		Invoice:  float64(f.InvoiceAmount),
		Duration: string(f.CallDuration),
		FollowUp: string(f.NextFollowUp),
		JobDate:  string(f.ScheduledDate),
		Status:   status,
		Progress: status.Progress(),
		Starred:  false,
		Notes:    "",
		HasCall:  isCall,
		RemoteID: rec.ID,
	}
}
