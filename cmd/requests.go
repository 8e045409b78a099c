package main

import (
	"bytes"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// staffRequest is a patron's follow-up for a work the status response could
// only answer with "ask staff".
type staffRequest struct {
	ItemID     string `json:"id" binding:"required"`
	CallNumber string `json:"callnumber"`
	Name       string `json:"name"`
	Email      string `json:"email" binding:"required"`
	Note       string `json:"note"`
}

func (svc *ServiceContext) createStaffRequest(c *gin.Context) {
	log.Printf("Received request for staff assistance")
	if svc.StaffRequestEmail == "" {
		c.String(http.StatusServiceUnavailable, "staff requests are not enabled")
		return
	}

	var req staffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Printf("ERROR: Unable to parse request: %s", err.Error())
		c.String(http.StatusBadRequest, err.Error())
		return
	}

	ticket := uuid.New().String()
	data := struct {
		staffRequest
		Ticket   string
		PatronID string
	}{req, ticket, c.GetString("patronID")}

	var renderedEmail bytes.Buffer
	if err := svc.RequestTemplate.Execute(&renderedEmail, data); err != nil {
		log.Printf("ERROR: Unable to render staff request %s: %s", ticket, err.Error())
		c.String(http.StatusInternalServerError, err.Error())
		return
	}

	eRequest := emailRequest{
		Subject: fmt.Sprintf("Item help request %s: %s", ticket, req.ItemID),
		To:      []string{svc.StaffRequestEmail},
		From:    svc.SMTP.Sender,
		ReplyTo: req.Email,
		Body:    renderedEmail.String(),
	}
	if sendErr := svc.sendEmail(&eRequest); sendErr != nil {
		log.Printf("ERROR: Unable to send staff request email: %s", sendErr.Error())
		c.String(http.StatusInternalServerError, sendErr.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{"ticket": ticket})
}
