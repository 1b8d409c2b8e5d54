package filing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validValues() map[string]any {
	return map[string]any{
		"id":         "edinet:S100TEST:abcd1234",
		"source":     "edinet",
		"checksum":   "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824",
		"name":       "S100TEST",
		"is_zip":     true,
		"created_at": time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC),
	}
}

func TestNew_Valid(t *testing.T) {
	f, err := New(validValues())
	require.NoError(t, err)

	assert.Equal(t, "edinet:S100TEST:abcd1234", f.ID())
	assert.Equal(t, "edinet", f.Source())
	assert.Equal(t, "S100TEST", f.Name())
	assert.True(t, f.IsZip())
	assert.Equal(t, time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC), f.CreatedAt())
	assert.Empty(t, f.Format())
	assert.Empty(t, f.Path())
}

func TestNew_MissingRequiredField(t *testing.T) {
	values := validValues()
	delete(values, "checksum")

	_, err := New(values)
	require.Error(t, err)
	assert.True(t, IsFieldError(err, "checksum", FieldRequired))
}

func TestNew_NilRequiredField(t *testing.T) {
	values := validValues()
	values["name"] = nil

	_, err := New(values)
	require.Error(t, err)
	assert.True(t, IsFieldError(err, "name", FieldRequired))
}

func TestNew_WrongType(t *testing.T) {
	values := validValues()
	values["is_zip"] = "yes"

	_, err := New(values)
	require.Error(t, err)
	assert.True(t, IsFieldError(err, "is_zip", FieldType))
	assert.Contains(t, err.Error(), "expected bool")
	assert.Contains(t, err.Error(), "string")
}

func TestNew_AggregatesAllViolations(t *testing.T) {
	values := validValues()
	delete(values, "id")
	delete(values, "created_at")
	values["checksum"] = 42

	_, err := New(values)
	require.Error(t, err)

	ve, ok := err.(*ValidationError)
	require.True(t, ok, "want *ValidationError, got %T", err)
	assert.Len(t, ve.Violations, 3)
	assert.Equal(t, []string{"id", "checksum", "created_at"}, ve.Fields())
}

func TestRoundTrip_ToMapFromMap(t *testing.T) {
	f, err := New(validValues())
	require.NoError(t, err)

	restored, err := FromMap(f.ToMap())
	require.NoError(t, err)
	assert.True(t, f.Equal(restored))
	assert.True(t, restored.Equal(f))
}

func TestFromMap_ParsesTimeStrings(t *testing.T) {
	values := validValues()
	values["created_at"] = "2024-05-01T09:30:00Z"

	f, err := FromMap(values)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC), f.CreatedAt())
}

func TestFromMap_RejectsBadTimeString(t *testing.T) {
	values := validValues()
	values["created_at"] = "2024/05/01"

	_, err := FromMap(values)
	require.Error(t, err)
	assert.True(t, IsFieldError(err, "created_at", FieldType))
}

func TestSet_ImmutableFieldRejected(t *testing.T) {
	f, err := New(validValues())
	require.NoError(t, err)

	for _, field := range []string{"id", "source", "name", "created_at"} {
		err := f.Set(field, "replacement")
		require.Error(t, err, "field %q", field)
		assert.True(t, IsFieldError(err, field, FieldImmutable), "field %q", field)
	}

	// The original values survive the rejected assignments.
	assert.Equal(t, "edinet:S100TEST:abcd1234", f.ID())
	assert.Equal(t, "S100TEST", f.Name())
}

func TestSet_MutableFields(t *testing.T) {
	f, err := New(validValues())
	require.NoError(t, err)

	require.NoError(t, f.Set("path", "edinet/S100TEST.zip"))
	assert.Equal(t, "edinet/S100TEST.zip", f.Path())

	require.NoError(t, f.Set("format", "xbrl"))
	assert.Equal(t, "xbrl", f.Format())

	err = f.Set("format", 7)
	require.Error(t, err)
	assert.True(t, IsFieldError(err, "format", FieldType))
}

func TestSet_ExtraFieldKept(t *testing.T) {
	f, err := New(validValues())
	require.NoError(t, err)

	require.NoError(t, f.Set("revenue", 1200000))
	v, ok := f.Get("revenue")
	require.True(t, ok)
	assert.Equal(t, int64(1200000), v)
}

func TestIndexedFields(t *testing.T) {
	f, err := New(validValues())
	require.NoError(t, err)
	require.NoError(t, f.Set("path", "edinet/S100TEST.zip"))

	indexed := f.IndexedFields()
	assert.Equal(t, "edinet", indexed["source"])
	assert.Equal(t, "edinet/S100TEST.zip", indexed["path"])
	assert.Equal(t, true, indexed["is_zip"])
	// Time fields are encoded as in ToMap.
	assert.Equal(t, "2024-05-01T09:30:00Z", indexed["created_at"])
	// Unset optional fields do not appear.
	assert.NotContains(t, indexed, "format")
}

func TestEqual_ValueBased(t *testing.T) {
	a, err := New(validValues())
	require.NoError(t, err)
	b, err := New(validValues())
	require.NoError(t, err)

	assert.True(t, a.Equal(b))

	require.NoError(t, b.Set("format", "xbrl"))
	assert.False(t, a.Equal(b))
	assert.False(t, a.Equal(nil))
}

func TestString_Deterministic(t *testing.T) {
	f, err := New(validValues())
	require.NoError(t, err)

	s := f.String()
	assert.Equal(t, s, f.String())
	assert.Contains(t, s, `id="edinet:S100TEST:abcd1234"`)
	assert.Contains(t, s, "2cf24dba")
}

func TestNewEDINET_SubtypeFields(t *testing.T) {
	values := validValues()
	values["edinet_code"] = "E12345"
	values["sec_code"] = "72030"
	values["filer_name"] = "トヨタ自動車株式会社"
	values["submit_datetime"] = "2024-05-01T09:30:00Z"

	f, err := NewEDINET(values)
	require.NoError(t, err)

	assert.Equal(t, "E12345", f.EdinetCode())
	assert.Equal(t, "72030", f.SecCode())
	assert.Equal(t, "トヨタ自動車株式会社", f.FilerName())
	assert.Equal(t, time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC), f.SubmitDatetime())
}

func TestNewEDINET_DefaultsSource(t *testing.T) {
	values := validValues()
	delete(values, "source")

	f, err := NewEDINET(values)
	require.NoError(t, err)
	assert.Equal(t, SourceEDINET, f.Source())
}

func TestNewEDINET_SchemaMergesBaseRules(t *testing.T) {
	values := validValues()
	delete(values, "id")
	values["edinet_code"] = 99 // wrong type on a subtype field

	_, err := NewEDINET(values)
	require.Error(t, err)
	assert.True(t, IsFieldError(err, "id", FieldRequired))
	assert.True(t, IsFieldError(err, "edinet_code", FieldType))
}

func TestNewEDGAR_SubtypeFields(t *testing.T) {
	values := validValues()
	values["source"] = SourceEDGAR
	values["cik"] = "0000320193"
	values["form_type"] = "10-K"
	values["filing_date"] = "2024-11-01T00:00:00Z"

	f, err := NewEDGAR(values)
	require.NoError(t, err)

	assert.Equal(t, "0000320193", f.CIK())
	assert.Equal(t, "10-K", f.FormType())
	assert.Equal(t, 2024, f.FilingDate().Year())
}

func TestStandardID(t *testing.T) {
	id := StandardID("edinet", "S100TEST", "ABCD1234EF567890")
	assert.Equal(t, "edinet:S100TEST:abcd1234", id)

	parts, err := ParseID(id)
	require.NoError(t, err)
	assert.Equal(t, "edinet", parts.Source)
	assert.Equal(t, "S100TEST", parts.SourceID)
	assert.Equal(t, "abcd1234", parts.ChecksumPrefix)

	_, err = ParseID("missing-separators")
	assert.Error(t, err)
}

func TestSchema_ExtendDoesNotMutateBase(t *testing.T) {
	base := BaseSchema()
	before := len(base.Fields())

	_ = base.Extend(FieldDef{Name: "custom", Kind: KindString})
	assert.Len(t, base.Fields(), before)

	_, ok := EDINETSchema().Lookup("id")
	assert.True(t, ok, "subtype schema keeps base fields")
}
