package filing

import "time"

// SourceEDINET is the source discriminator for EDINET disclosure documents.
const SourceEDINET = "edinet"

var edinetSchema = BaseSchema().Extend(
	FieldDef{Name: "edinet_code", Kind: KindString, Indexed: true, Description: "EDINET code"},
	FieldDef{Name: "sec_code", Kind: KindString, Indexed: true, Description: "Securities code"},
	FieldDef{Name: "jcn", Kind: KindString, Description: "Corporate number"},
	FieldDef{Name: "filer_name", Kind: KindString, Indexed: true, Description: "Filer name"},
	FieldDef{Name: "ordinance_code", Kind: KindString, Description: "Ordinance code"},
	FieldDef{Name: "form_code", Kind: KindString, Description: "Form code"},
	FieldDef{Name: "doc_type_code", Kind: KindString, Indexed: true, Description: "Document type code"},
	FieldDef{Name: "doc_description", Kind: KindString, Description: "Document description"},
	FieldDef{Name: "period_start", Kind: KindTime, Description: "Period start"},
	FieldDef{Name: "period_end", Kind: KindTime, Description: "Period end"},
	FieldDef{Name: "submit_datetime", Kind: KindTime, Indexed: true, Description: "Submit datetime"},
	FieldDef{Name: "parent_doc_id", Kind: KindString, Description: "Parent document ID"},
)

// EDINETSchema returns the EDINET filing shape: the base schema plus the
// EDINET-specific fields. All subtype fields are optional.
func EDINETSchema() *Schema {
	return edinetSchema
}

// EDINET is a filing from the Japanese EDINET disclosure system.
type EDINET struct {
	Base
}

// NewEDINET constructs an EDINET filing. The source discriminator defaults
// to SourceEDINET when absent. Validation rules are the base rules plus the
// EDINET schema's declared kinds.
func NewEDINET(values map[string]any) (*EDINET, error) {
	if _, ok := values[FieldSource]; !ok {
		values = withDefault(values, FieldSource, SourceEDINET)
	}
	b, err := newBase(EDINETSchema(), "EDINETFiling", values)
	if err != nil {
		return nil, err
	}
	return &EDINET{Base: *b}, nil
}

// EdinetCode returns the EDINET code of the filer.
func (f *EDINET) EdinetCode() string { return f.getString("edinet_code") }

// SecCode returns the securities code of the filer.
func (f *EDINET) SecCode() string { return f.getString("sec_code") }

// JCN returns the corporate number of the filer.
func (f *EDINET) JCN() string { return f.getString("jcn") }

// FilerName returns the filer name.
func (f *EDINET) FilerName() string { return f.getString("filer_name") }

// OrdinanceCode returns the ordinance code.
func (f *EDINET) OrdinanceCode() string { return f.getString("ordinance_code") }

// FormCode returns the form code.
func (f *EDINET) FormCode() string { return f.getString("form_code") }

// DocTypeCode returns the document type code.
func (f *EDINET) DocTypeCode() string { return f.getString("doc_type_code") }

// DocDescription returns the document description.
func (f *EDINET) DocDescription() string { return f.getString("doc_description") }

// PeriodStart returns the reporting period start.
func (f *EDINET) PeriodStart() time.Time { return f.getTime("period_start") }

// PeriodEnd returns the reporting period end.
func (f *EDINET) PeriodEnd() time.Time { return f.getTime("period_end") }

// SubmitDatetime returns the submission timestamp.
func (f *EDINET) SubmitDatetime() time.Time { return f.getTime("submit_datetime") }

// ParentDocID returns the parent document ID, or "" for root documents.
func (f *EDINET) ParentDocID() string { return f.getString("parent_doc_id") }

func (b *Base) getTime(name string) time.Time {
	t, _ := b.values[name].(time.Time)
	return t
}

func withDefault(values map[string]any, key string, value any) map[string]any {
	out := make(map[string]any, len(values)+1)
	for k, v := range values {
		out[k] = v
	}
	out[key] = value
	return out
}
