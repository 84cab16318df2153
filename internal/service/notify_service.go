package service

import (
	"fmt"
	"log"

	"parkzone/internal/db"
)

// NotifyService fans a reservation status change out to email and SMS.
// Delivery failures are logged, never surfaced to the caller.
type NotifyService struct {
	sender *SenderService
}

func NewNotifyService(sender *SenderService) *NotifyService {
	return &NotifyService{sender: sender}
}

func (n *NotifyService) ReservationStatusChanged(user *db.User, res *db.Reservation) {
	subject := fmt.Sprintf("Your parking reservation %s is %s", res.Code, res.Status)
	body := fmt.Sprintf(
		"Hello %s,\n\nYour parking reservation is %s.\n\n"+
			"Reservation Details:\n"+
			"Code: %s\n"+
			"From: %s\n"+
			"To: %s\n"+
			"Total: %.2f\n\n"+
			"Thank you for using ParkZone.",
		user.Name, res.Status, res.Code,
		res.StartTime.Format("02 Jan 2006 15:04 MST"),
		res.EndTime.Format("02 Jan 2006 15:04 MST"),
		res.TotalPrice,
	)

	go func() {
		if err := n.sender.SendEmail(user.Email, user.Name, subject, body); err != nil {
			log.Printf("Failed to send email for reservation %s: %v", res.Code, err)
		}
	}()

	if user.Phone != "" {
		sms := fmt.Sprintf("ParkZone: reservation %s is %s. Starts %s.",
			res.Code, res.Status, res.StartTime.Format("02/01 15:04"))
		go func() {
			if err := n.sender.SendSMS(user.Phone, sms); err != nil {
				log.Printf("Failed to send SMS for reservation %s: %v", res.Code, err)
			}
		}()
	}
}
