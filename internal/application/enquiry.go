package application

import (
	"fmt"
	"net/url"
	"strings"
	"unicode"

	"github.com/techxplorers/portfolio/internal/domain/model"
)

// Message templates for outbound enquiries. ServiceEnquiryTemplate takes the
// plain service title; ShowcaseTemplate takes the 1-based showcase position.
const (
	ServiceEnquiryTemplate = "Hi, I'm interested in %s"
	ShowcaseTemplate       = "Hi, I am interested in this service: Asset %d"
	ReferralTemplate       = "Hi, I'd like to refer a software project."
	GeneralQueryTemplate   = "Hi, I have a query."
)

const whatsAppBase = "https://wa.me/"

// EnquiryLink builds a WhatsApp click-to-chat link. Non-digit characters in
// number are dropped; an empty number yields "".
func EnquiryLink(number, message string) string {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, number)
	if digits == "" {
		return ""
	}

	text := strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	return whatsAppBase + digits + "?text=" + text
}

// ServiceEnquiryLink builds the enquiry link for a single service. Title
// line breaks become spaces.
func ServiceEnquiryLink(number string, record model.ServiceRecord) string {
	return EnquiryLink(number, fmt.Sprintf(ServiceEnquiryTemplate, model.PlainTitle(record.Title)))
}

// ShowcaseEnquiryLink builds the enquiry link for the image at 0-based index
// in the showcase carousel.
func ShowcaseEnquiryLink(number string, index int) string {
	return EnquiryLink(number, fmt.Sprintf(ShowcaseTemplate, index+1))
}
