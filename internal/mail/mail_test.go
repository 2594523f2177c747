package mail

import (
	"context"
	"net/smtp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRender(t *testing.T) {
	n := Notice{Name: "Ada", Email: "ada@office.com", SeatNumber: "A1", LocationArea: "North Wing", Date: "2025-06-10"}

	msg, err := Render(KindConfirmed, n)
	require.NoError(t, err)
	assert.Equal(t, "ada@office.com", msg.To)
	assert.Equal(t, "Your Seat Reservation is Confirmed!", msg.Subject)
	assert.Contains(t, msg.HTML, "<strong>A1</strong>")
	assert.Contains(t, msg.HTML, "North Wing")
	assert.Contains(t, msg.HTML, "2025-06-10")

	msg, err = Render(KindCancelled, n)
	require.NoError(t, err)
	assert.Equal(t, "Your Seat Reservation has been Cancelled", msg.Subject)

	_, err = Render("unknown", n)
	require.Error(t, err)
}

func TestRender_EscapesHTML(t *testing.T) {
	msg, err := Render(KindConfirmed, Notice{Name: "<script>", SeatNumber: "A1"})
	require.NoError(t, err)
	assert.NotContains(t, msg.HTML, "<script>")
}

func TestSMTPMailer_Send(t *testing.T) {
	var (
		gotAddr string
		gotTo   []string
		gotBody string
	)
	m := NewSMTPMailer("smtp.office.com", 587, "", "", "noreply@office.com")
	m.send = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr, gotTo, gotBody = addr, to, string(msg)
		return nil
	}

	err := m.Send(context.Background(), Message{To: "ada@office.com", Subject: "Hi", HTML: "<p>x</p>"})
	require.NoError(t, err)
	assert.Equal(t, "smtp.office.com:587", gotAddr)
	assert.Equal(t, []string{"ada@office.com"}, gotTo)
	assert.Contains(t, gotBody, "Subject: Hi\r\n")
	assert.Contains(t, gotBody, "text/html")
	assert.Nil(t, m.Auth)
}
