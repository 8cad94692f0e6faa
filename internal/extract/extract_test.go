package extract

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func plainDoc(text string) RawDocument {
	return RawDocument{
		Bytes:    []byte(text),
		MimeType: "text/plain",
		FileName: "resume.txt",
		Size:     int64(len(text)),
	}
}

func sampleResume() string {
	return strings.Join([]string{
		"Jane Doe",
		"jane@example.com | +1 555 0100",
		"",
		"Summary",
		"Backend engineer with eight years of experience building payment systems.",
		"",
		"Work Experience",
		"Acme Corp, Senior Engineer, 2019-2024.",
		"Led a team of four building settlement pipelines in Go and Postgres.",
		"",
		"Education",
		"BSc Computer Science, State University.",
		"",
		"Skills",
		"Go, PostgreSQL, Kubernetes, Terraform.",
	}, "\n")
}

func TestExtractPlainText(t *testing.T) {
	e := New(10)
	out, err := e.Extract(context.Background(), plainDoc(sampleResume()))
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if out.WordCount < 10 {
		t.Fatalf("wordCount = %d, want >= 10", out.WordCount)
	}
	if out.CharCount != len(out.Text) {
		t.Fatalf("charCount = %d, want %d", out.CharCount, len(out.Text))
	}

	want := []string{"summary", "experience", "education", "skills"}
	got := out.SectionNames()
	if len(got) != len(want) {
		t.Fatalf("sections = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("section %d = %q, want %q", i, got[i], want[i])
		}
	}

	body, ok := out.SectionText("skills")
	if !ok {
		t.Fatal("skills section missing")
	}
	if !strings.Contains(body, "PostgreSQL") {
		t.Fatalf("skills body = %q, want PostgreSQL mention", body)
	}
	if strings.Contains(body, "Skills") {
		t.Fatalf("skills body = %q, must not include the heading line", body)
	}
}

func TestExtractRejectsUnsupportedFormat(t *testing.T) {
	e := New(0)
	_, err := e.Extract(context.Background(), RawDocument{
		Bytes:    []byte("GIF89a"),
		MimeType: "image/gif",
		FileName: "resume.gif",
	})
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("err = %v, want ErrUnsupportedFormat", err)
	}
}

func TestExtractRejectsShortContent(t *testing.T) {
	e := New(50)
	_, err := e.Extract(context.Background(), plainDoc("too short"))
	if !errors.Is(err, ErrEmptyContent) {
		t.Fatalf("err = %v, want ErrEmptyContent", err)
	}
}

func TestExtractRejectsCorruptPDF(t *testing.T) {
	e := New(0)
	_, err := e.Extract(context.Background(), RawDocument{
		Bytes:    []byte("%PDF-1.7 but nothing else"),
		MimeType: "application/pdf",
		FileName: "resume.pdf",
	})
	if !errors.Is(err, ErrCorruptDocument) {
		t.Fatalf("err = %v, want ErrCorruptDocument", err)
	}
}

func TestExtractRejectsCorruptDOCX(t *testing.T) {
	e := New(0)
	_, err := e.Extract(context.Background(), RawDocument{
		Bytes:    []byte("not a zip archive"),
		MimeType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		FileName: "resume.docx",
	})
	if !errors.Is(err, ErrCorruptDocument) {
		t.Fatalf("err = %v, want ErrCorruptDocument", err)
	}
}

func TestExtractHonorsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	e := New(0)
	if _, err := e.Extract(ctx, plainDoc(sampleResume())); !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestNormalizeText(t *testing.T) {
	in := "Line one  \r\nLine two\t\r\n\r\n\r\n\r\nLine three\r"
	want := "Line one\nLine two\n\nLine three"
	if got := normalizeText(in); got != want {
		t.Fatalf("normalizeText = %q, want %q", got, want)
	}
}

func TestNormalizeMimeTypeSniffsExtension(t *testing.T) {
	cases := []struct {
		name     string
		mime     string
		fileName string
		want     string
	}{
		{"charset suffix", "text/plain; charset=utf-8", "a.txt", mimeText},
		{"octet stream pdf", "application/octet-stream", "resume.pdf", mimePDF},
		{"octet stream docx", "application/octet-stream", "resume.docx", mimeDOCX},
		{"zip docx ext", "application/zip", "resume.docx", mimeDOCX},
		{"unknown stays", "image/png", "resume.png", "image/png"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := normalizeMimeType(tc.mime, tc.fileName, nil); got != tc.want {
				t.Fatalf("normalizeMimeType = %q, want %q", got, tc.want)
			}
		})
	}
}
