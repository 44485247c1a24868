package submit_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-formkit/pkg/submit"
)

func TestPayloadTreeNestsBracketPaths(t *testing.T) {
	p := submit.NewPayload()
	p.Set("name", "Ada")
	p.Set("address[street]", "Pariser Platz 1")
	p.Set("address[city]", "Berlin")
	p.Set("contact[phone][mobile]", "+49 30 1234")
	p.AddHidden(submit.Hidden("_form", "f-1"), submit.Hidden("_trigger", "save"))

	tree := p.Tree()
	require.Equal(t, "Ada", tree["name"])

	address, ok := tree["address"].(map[string]any)
	require.True(t, ok, "address subtree")
	require.Equal(t, "Berlin", address["city"])

	contact := tree["contact"].(map[string]any)
	phone := contact["phone"].(map[string]any)
	require.Equal(t, "+49 30 1234", phone["mobile"])

	require.Equal(t, "f-1", tree["_form"])
	require.Equal(t, "save", tree["_trigger"])
}

func TestPayloadLastSetWins(t *testing.T) {
	p := submit.NewPayload()
	p.Set("color", "#ff0000")
	p.Set("color", "#00ff00")
	require.Equal(t, "#00ff00", p.Tree()["color"])
}

func TestPayloadNestedPathReplacesScalar(t *testing.T) {
	p := submit.NewPayload()
	p.Set("a", "scalar")
	p.Set("a[b]", "nested")
	a, ok := p.Tree()["a"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "nested", a["b"])
}

func TestPayloadEncodeJSON(t *testing.T) {
	p := submit.NewPayload()
	p.Set("toggle", nil)
	p.Set("count", float64(3))

	data, err := p.EncodeJSON()
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.Nil(t, decoded["toggle"])
	require.Equal(t, float64(3), decoded["count"])
}

func TestPayloadEncodeMultipart(t *testing.T) {
	p := submit.NewPayload()
	p.Set("title", "report")
	p.Set("tags", []string{"a", "b"})
	p.AddHidden(submit.CSRFToken("_csrf", "tok"))
	p.AddFile(submit.FilePart{
		Field:       "attachment",
		Name:        "report.pdf",
		ContentType: "application/pdf",
		Content:     []byte("%PDF-1.4"),
	})
	require.True(t, p.HasFiles())

	body, contentType, err := p.EncodeMultipart()
	require.NoError(t, err)

	mediaType, params, err := mime.ParseMediaType(contentType)
	require.NoError(t, err)
	require.Equal(t, "multipart/form-data", mediaType)

	reader := multipart.NewReader(bytes.NewReader(body), params["boundary"])
	parts := map[string]string{}
	var fileName string
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		content, err := io.ReadAll(part)
		require.NoError(t, err)
		if part.FileName() != "" {
			fileName = part.FileName()
		}
		parts[part.FormName()] = string(content)
	}

	require.Equal(t, "report", parts["title"])
	require.Equal(t, `["a","b"]`, parts["tags"])
	require.Equal(t, "tok", parts["_csrf"])
	require.Equal(t, "report.pdf", fileName)
	require.Equal(t, "%PDF-1.4", parts["attachment"])
}

func TestSortedHiddenLaterWins(t *testing.T) {
	p := submit.NewPayload()
	p.AddHidden(submit.Hidden("version", 1), submit.VersionField("version", 2))
	fields := p.SortedHidden()
	require.Len(t, fields, 1)
	require.Equal(t, "2", fields[0].Value)
}
