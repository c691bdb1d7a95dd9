package workflow

// Section is one collapsible step of the claim workflow. The machine's
// current section is the furthest one unlocked for the claim.
type Section string

const (
	SectionCheckNominee      Section = "CHECK_NOMINEE"
	SectionDocumentsRequired Section = "DOCUMENTS_REQUIRED"
	SectionInvestigation     Section = "INVESTIGATION"
	SectionDODecision        Section = "DO_DECISION"
	SectionProceedPayment    Section = "PROCEED_PAYMENT"
	SectionClosed            Section = "CLOSED"
)

var validSections = map[Section]bool{
	SectionCheckNominee:      true,
	SectionDocumentsRequired: true,
	SectionInvestigation:     true,
	SectionDODecision:        true,
	SectionProceedPayment:    true,
	SectionClosed:            true,
}

var sectionTitles = map[Section]string{
	SectionCheckNominee:      "Check Nominee",
	SectionDocumentsRequired: "Documents Required",
	SectionInvestigation:     "Investigation",
	SectionDODecision:        "D.O. Decision",
	SectionProceedPayment:    "Proceed Payment",
	SectionClosed:            "Closed",
}

// IsTerminal returns true once payment is done
func (s Section) IsTerminal() bool {
	return s == SectionClosed
}

// String returns the string representation of the section
func (s Section) String() string {
	return string(s)
}

// Title returns the heading shown for the section
func (s Section) Title() string {
	if t, ok := sectionTitles[s]; ok {
		return t
	}
	return string(s)
}

// IsValid returns true if the section is a known workflow section
func (s Section) IsValid() bool {
	return validSections[s]
}
