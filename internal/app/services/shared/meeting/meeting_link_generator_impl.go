package meeting

import (
	"context"
	"fmt"
	"medibook-service/internal/app/contracts"
	"medibook-service/internal/app/models"
	"medibook-service/internal/pkg/exceptions"
	"medibook-service/internal/pkg/utils"
	"strings"
)

type meetingLinkGenerator struct {
	BaseUrl string
}

func NewMeetingLinkGenerator(baseUrl string) contracts.MeetingLinkGenerator {
	return &meetingLinkGenerator{BaseUrl: strings.TrimSuffix(baseUrl, "/")}
}

// Generate builds an unguessable room url for the appointment.
func (g *meetingLinkGenerator) Generate(ctx context.Context, appointment *models.Appointment) (string, error) {
	token, err := utils.GenerateRandomToken(6)
	if err != nil {
		return "", exceptions.ErrServerProcess(err)
	}
	return fmt.Sprintf("%s/%s-%s", g.BaseUrl, appointment.ID, token), nil
}
