package services

import (
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/breakfast4u/breakfast4u-api/config"
)

// Mailer defines the interface for outbound email. Sending is best-effort
// from every call site: failures are logged and never fail the surrounding
// operation.
type Mailer interface {
	Send(to, subject, htmlBody string) error
}

// SMTPMailer implements Mailer over SMTP
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

var mailerInstance Mailer

// InitMailer initializes the SMTP mailer from configuration
func InitMailer(cfg *config.Config) Mailer {
	mailerInstance = &SMTPMailer{
		dialer: gomail.NewDialer(cfg.EmailHost, cfg.EmailPort, cfg.EmailUser, cfg.EmailPass),
		from:   cfg.EmailFrom,
	}
	return mailerInstance
}

// GetMailer returns the initialized mailer instance
func GetMailer() Mailer {
	return mailerInstance
}

// SetMailer sets the mailer instance (primarily for testing)
func SetMailer(m Mailer) {
	mailerInstance = m
}

// Send delivers a single HTML email
func (m *SMTPMailer) Send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", to, err)
	}
	return nil
}

// EmailLineItem is one order line rendered in a confirmation email.
type EmailLineItem struct {
	Name     string
	Quantity int
	Price    float64
}

// WelcomeEmail builds the welcome email for a new user.
func WelcomeEmail(name string) (subject, html string) {
	subject = "Welcome to Breakfast4U!"
	html = fmt.Sprintf(`
      <div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
        <h2 style="color: #f97316;">Welcome to Breakfast4U, %s!</h2>
        <p>Thank you for joining our community of breakfast lovers.</p>
        <p>Start exploring delicious breakfast options in your area and discover your perfect morning meal!</p>
        <div style="background-color: #f97316; color: white; padding: 15px; text-align: center; border-radius: 5px; margin: 20px 0;">
          <h3>Get Started</h3>
          <p>Browse our menu and find stores near you</p>
        </div>
        <p>Best regards,<br>The Breakfast4U Team</p>
      </div>`, name)
	return subject, html
}

// ContactConfirmationEmail builds the acknowledgement sent to a contact-form
// submitter.
func ContactConfirmationEmail(name, inquirySubject string) (subject, html string) {
	subject = "We received your message - Breakfast4U"
	html = fmt.Sprintf(`
      <div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
        <h2 style="color: #f97316;">Thank you for contacting us, %s!</h2>
        <p>We have received your message regarding: <strong>%s</strong></p>
        <p>Our team will review your inquiry and get back to you within 24 hours.</p>
        <p>Best regards,<br>The Breakfast4U Support Team</p>
      </div>`, name, inquirySubject)
	return subject, html
}

// ContactResponseEmail builds the reply sent when support responds to a ticket.
func ContactResponseEmail(name, originalSubject, message, response string) (subject, html string) {
	subject = fmt.Sprintf("Re: %s - Breakfast4U Support", originalSubject)
	html = fmt.Sprintf(`
      <div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
        <h2 style="color: #f97316;">Response to Your Inquiry</h2>
        <p>Dear %s,</p>
        <p>Thank you for contacting Breakfast4U. Here's our response to your inquiry:</p>
        <div style="background-color: #f3f4f6; padding: 15px; border-radius: 5px; margin: 20px 0;">
          <p><strong>Your Message:</strong></p>
          <p>%s</p>
          <hr>
          <p><strong>Our Response:</strong></p>
          <p>%s</p>
        </div>
        <p>If you have any further questions, please don't hesitate to contact us.</p>
        <p>Best regards,<br>The Breakfast4U Support Team</p>
      </div>`, name, message, response)
	return subject, html
}

// OrderConfirmationEmail builds the order confirmation sent to a purchaser.
func OrderConfirmationEmail(orderNumber string, items []EmailLineItem, total float64) (subject, html string) {
	subject = fmt.Sprintf("Order Confirmation - %s", orderNumber)

	var lines strings.Builder
	for _, item := range items {
		lines.WriteString(fmt.Sprintf("<li>%dx %s - ₹%.2f</li>", item.Quantity, item.Name, item.Price*float64(item.Quantity)))
	}

	html = fmt.Sprintf(`
      <div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
        <h2 style="color: #f97316;">Order Confirmed!</h2>
        <p>Your order <strong>%s</strong> has been confirmed.</p>
        <div style="background-color: #f3f4f6; padding: 15px; border-radius: 5px; margin: 20px 0;">
          <h3>Order Details:</h3>
          <ul>%s</ul>
          <hr>
          <p><strong>Total: ₹%.2f</strong></p>
        </div>
        <p>We'll notify you when your order is ready!</p>
        <p>Best regards,<br>The Breakfast4U Team</p>
      </div>`, orderNumber, lines.String(), total)
	return subject, html
}

// AdminContactNotificationEmail builds the internal notification about a new
// contact-form submission.
func AdminContactNotificationEmail(name, email, phone, category, inquirySubject, message string) (subject, html string) {
	subject = fmt.Sprintf("New Contact Form Submission - %s", category)
	if phone == "" {
		phone = "Not provided"
	}
	html = fmt.Sprintf(`
      <div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
        <h2 style="color: #f97316;">New Contact Form Submission</h2>
        <div style="background-color: #f3f4f6; padding: 15px; border-radius: 5px; margin: 20px 0;">
          <p><strong>Name:</strong> %s</p>
          <p><strong>Email:</strong> %s</p>
          <p><strong>Phone:</strong> %s</p>
          <p><strong>Category:</strong> %s</p>
          <p><strong>Subject:</strong> %s</p>
          <p><strong>Message:</strong></p>
          <p>%s</p>
        </div>
      </div>`, name, email, phone, category, inquirySubject, message)
	return subject, html
}
