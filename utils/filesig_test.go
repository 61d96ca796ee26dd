package utils

import "testing"

func TestAllowedAttachmentExtension(t *testing.T) {
	cases := []struct {
		name string
		ok   bool
	}{
		{"minutes.pdf", true},
		{"Minutes.PDF", true},
		{"report.docx", true},
		{"roster.xlsx", true},
		{"notes.txt", true},
		{"photo.jpeg", true},
		{"payload.exe", false},
		{"script.sh", false},
		{"noextension", false},
		{"archive.zip", false},
	}
	for _, c := range cases {
		if got := AllowedAttachmentExtension(c.name); got != c.ok {
			t.Errorf("AllowedAttachmentExtension(%q) = %v, want %v", c.name, got, c.ok)
		}
	}
}

func TestAllowedAttachmentContentType(t *testing.T) {
	if !AllowedAttachmentContentType("application/pdf") {
		t.Error("application/pdf should be allowed")
	}
	if AllowedAttachmentContentType("application/octet-stream") {
		t.Error("application/octet-stream should be rejected")
	}
}

func TestValidFileSignature(t *testing.T) {
	cases := []struct {
		name string
		head []byte
		ok   bool
	}{
		{"minutes.pdf", []byte("%PDF-1.7"), true},
		{"minutes.pdf", []byte("MZPE0000"), false},
		{"report.doc", []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}, true},
		{"report.docx", []byte{0x50, 0x4B, 0x03, 0x04, 0x14, 0x00, 0x06, 0x00}, true},
		{"report.docx", []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}, false},
		{"photo.jpg", []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 0x4A, 0x46}, true},
		{"photo.png", []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}, true},
		{"photo.png", []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 0x4A, 0x46}, false},
		// txt has no magic bytes; anything passes
		{"notes.txt", []byte("hello"), true},
		// unknown extensions never pass even with a known signature
		{"payload.exe", []byte("%PDF-1.7"), false},
	}
	for _, c := range cases {
		if got := ValidFileSignature(c.name, c.head); got != c.ok {
			t.Errorf("ValidFileSignature(%q, % X) = %v, want %v", c.name, c.head, got, c.ok)
		}
	}
}
