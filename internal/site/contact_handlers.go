package site

import (
	"net/http"
	"net/mail"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/simonting/portfolio/internal/observability"
)

const (
	contactFailedMessage  = "Sorry, there was an error sending your message. Please try again later."
	contactInvalidMessage = "Please provide your name, a valid email address and a message."
	contactSuccessDefault = "Thank you for your message! I'll get back to you soon."
)

func (s *server) contactForm(c *gin.Context) {
	c.HTML(http.StatusOK, "contact.html", gin.H{
		"title": "Contact Me",
	})
}

func (s *server) submitContact(c *gin.Context) {
	msg := ContactMessage{
		Name:    strings.TrimSpace(c.PostForm("fullName")),
		Email:   strings.TrimSpace(c.PostForm("email")),
		Message: strings.TrimSpace(c.PostForm("message")),
	}
	if msg.Name == "" || msg.Message == "" {
		c.HTML(http.StatusOK, "contact-error.html", gin.H{"error": contactInvalidMessage})
		return
	}
	if _, err := mail.ParseAddress(msg.Email); err != nil {
		c.HTML(http.StatusOK, "contact-error.html", gin.H{"error": contactInvalidMessage})
		return
	}

	if err := s.mailer.Send(c.Request.Context(), msg); err != nil {
		observability.FromContext(c, s.logger).Error("contact email failed", zap.Error(err))
		c.HTML(http.StatusOK, "contact-error.html", gin.H{"error": contactFailedMessage})
		return
	}

	success := s.site.Contact.SuccessMessage
	if success == "" {
		success = contactSuccessDefault
	}
	c.HTML(http.StatusOK, "contact-success.html", gin.H{"success": success})
}
