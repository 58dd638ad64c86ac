package email

import (
	"net/smtp"
	"strings"
	"testing"
)

func newCaptureService() (*Service, *[][]byte) {
	svc := NewService(Config{
		Host:     "smtp.example.com",
		Port:     "587",
		Username: "board",
		Password: "secret",
		From:     "board@example.com",
		FromName: "Connect Ideas",
	})
	var sent [][]byte
	svc.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		sent = append(sent, msg)
		return nil
	}
	return svc, &sent
}

func TestIsConfigured(t *testing.T) {
	if NewService(Config{}).IsConfigured() {
		t.Error("empty config should not be configured")
	}
	svc, _ := newCaptureService()
	if !svc.IsConfigured() {
		t.Error("full config should be configured")
	}
}

func TestSendEmailRequiresConfiguration(t *testing.T) {
	svc := NewService(Config{})
	if err := svc.SendEmail([]string{"a@example.com"}, "hi", "body"); err == nil {
		t.Error("expected error when unconfigured")
	}
}

func TestSendEmailHeaders(t *testing.T) {
	svc, sent := newCaptureService()
	if err := svc.SendEmail([]string{"inbox@example.com"}, "Test subject", "Hello there"); err != nil {
		t.Fatalf("SendEmail: %v", err)
	}
	if len(*sent) != 1 {
		t.Fatalf("expected 1 message, got %d", len(*sent))
	}
	msg := string((*sent)[0])
	for _, want := range []string{
		"To: inbox@example.com\r\n",
		"From: Connect Ideas <board@example.com>\r\n",
		"Subject: Test subject\r\n",
		"Hello there",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q", want)
		}
	}
}

func TestSendContactMessage(t *testing.T) {
	svc, sent := newCaptureService()
	err := svc.SendContactMessage("inbox@example.com", "Priya Nair", "priya@iitb.ac.in", "Keen to join the next pitch night.")
	if err != nil {
		t.Fatalf("SendContactMessage: %v", err)
	}
	if len(*sent) != 1 {
		t.Fatalf("expected 1 message, got %d", len(*sent))
	}
	msg := string((*sent)[0])
	for _, want := range []string{
		"Subject: Connect Ideas contact message from Priya Nair",
		"priya@iitb.ac.in",
		"Keen to join the next pitch night.",
		"multipart/alternative",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("message missing %q", want)
		}
	}
}

func TestSendContactMessageEscapesHTML(t *testing.T) {
	svc, sent := newCaptureService()
	err := svc.SendContactMessage("inbox@example.com", "Eve", "eve@example.com", "<script>alert(1)</script>")
	if err != nil {
		t.Fatalf("SendContactMessage: %v", err)
	}
	msg := string((*sent)[0])
	if strings.Contains(msg, "<script>alert(1)</script>") {
		t.Error("message body was not escaped")
	}
}
