package filing

import "time"

// SourceEDGAR is the source discriminator for SEC EDGAR filings.
const SourceEDGAR = "edgar"

var edgarSchema = BaseSchema().Extend(
	FieldDef{Name: "cik", Kind: KindString, Indexed: true, Description: "Central index key"},
	FieldDef{Name: "accession_number", Kind: KindString, Indexed: true, Description: "Accession number"},
	FieldDef{Name: "company_name", Kind: KindString, Indexed: true, Description: "Company name"},
	FieldDef{Name: "form_type", Kind: KindString, Indexed: true, Description: "Form type"},
	FieldDef{Name: "filing_date", Kind: KindTime, Indexed: true, Description: "Filing date"},
	FieldDef{Name: "period_of_report", Kind: KindTime, Description: "Period of report"},
	FieldDef{Name: "sic_code", Kind: KindString, Description: "SIC code"},
	FieldDef{Name: "state_of_incorporation", Kind: KindString, Description: "State of incorporation"},
	FieldDef{Name: "fiscal_year_end", Kind: KindString, Description: "Fiscal year end"},
)

// EDGARSchema returns the EDGAR filing shape: the base schema plus the
// EDGAR-specific fields. All subtype fields are optional.
func EDGARSchema() *Schema {
	return edgarSchema
}

// EDGAR is a filing from the SEC EDGAR disclosure system.
type EDGAR struct {
	Base
}

// NewEDGAR constructs an EDGAR filing. The source discriminator defaults
// to SourceEDGAR when absent.
func NewEDGAR(values map[string]any) (*EDGAR, error) {
	if _, ok := values[FieldSource]; !ok {
		values = withDefault(values, FieldSource, SourceEDGAR)
	}
	b, err := newBase(EDGARSchema(), "EDGARFiling", values)
	if err != nil {
		return nil, err
	}
	return &EDGAR{Base: *b}, nil
}

// CIK returns the SEC central index key.
func (f *EDGAR) CIK() string { return f.getString("cik") }

// AccessionNumber returns the accession number.
func (f *EDGAR) AccessionNumber() string { return f.getString("accession_number") }

// CompanyName returns the registrant company name.
func (f *EDGAR) CompanyName() string { return f.getString("company_name") }

// FormType returns the form type, e.g. "10-K".
func (f *EDGAR) FormType() string { return f.getString("form_type") }

// FilingDate returns the filing date.
func (f *EDGAR) FilingDate() time.Time { return f.getTime("filing_date") }

// PeriodOfReport returns the period of report.
func (f *EDGAR) PeriodOfReport() time.Time { return f.getTime("period_of_report") }

// SICCode returns the standard industrial classification code.
func (f *EDGAR) SICCode() string { return f.getString("sic_code") }

// StateOfIncorporation returns the state of incorporation.
func (f *EDGAR) StateOfIncorporation() string { return f.getString("state_of_incorporation") }

// FiscalYearEnd returns the fiscal year end (MMDD).
func (f *EDGAR) FiscalYearEnd() string { return f.getString("fiscal_year_end") }
