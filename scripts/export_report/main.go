package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/xuri/excelize/v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/campuspulse/campuspulse/internal/config"
	"github.com/campuspulse/campuspulse/internal/models"
	"github.com/campuspulse/campuspulse/internal/services"
)

const topUserLimit = 500

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("failed to load config:", err)
	}

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		os.Getenv("DB_HOST"), os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"), os.Getenv("DB_PORT"))

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect database:", err)
	}

	output := "campuspulse_report.xlsx"
	if len(os.Args) > 1 {
		output = os.Args[1]
	}

	scoring := services.NewScoringService(nil, nil, cfg)

	f := excelize.NewFile()
	defer f.Close()

	if err := writeTopUsers(f, db, scoring); err != nil {
		log.Fatal("failed to export top users:", err)
	}
	if err := writeInviteHistory(f, db); err != nil {
		log.Fatal("failed to export invite history:", err)
	}

	// Drop the default sheet so the report opens on the users sheet.
	f.DeleteSheet("Sheet1")

	if err := f.SaveAs(output); err != nil {
		log.Fatal("failed to save report:", err)
	}

	fmt.Printf("Report written to %s\n", output)
}

func writeTopUsers(f *excelize.File, db *gorm.DB, scoring *services.ScoringService) error {
	var users []models.User
	err := db.Where("profile_completed = ?", true).
		Order("attractiveness_score DESC, id ASC").
		Limit(topUserLimit).
		Find(&users).Error
	if err != nil {
		return err
	}

	const sheet = "Top Users"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headers := []string{"ID", "Name", "College", "Score", "Rating", "Engagement Points", "Streak Days", "Interests"}
	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for i, user := range users {
		row := i + 2
		values := []interface{}{
			user.ID,
			user.FullName,
			user.CollegeName,
			user.AttractivenessScore,
			scoring.DisplayRating(user.AttractivenessScore),
			user.EngagementPoints,
			user.SocialStreakDays,
			strings.Join(user.Interests, ", "),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(sheet, cell, v)
		}
	}

	fmt.Printf("Exported %d users\n", len(users))
	return nil
}

func writeInviteHistory(f *excelize.File, db *gorm.DB) error {
	var history []models.UserInvitee
	err := db.Order("total_invitations DESC").
		Limit(topUserLimit).
		Find(&history).Error
	if err != nil {
		return err
	}

	const sheet = "Invite History"
	if _, err := f.NewSheet(sheet); err != nil {
		return err
	}

	headers := []string{"Owner", "Invitee", "Total Invitations", "Events", "First Invited", "Last Invited"}
	for col, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, h)
	}

	for i, entry := range history {
		row := i + 2
		values := []interface{}{
			entry.OwnerID,
			entry.InviteeID,
			entry.TotalInvitations,
			len(entry.EventsInvitedTo),
			entry.FirstInvitedAt.Format("2006-01-02"),
			entry.LastInvitedAt.Format("2006-01-02"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(sheet, cell, v)
		}
	}

	fmt.Printf("Exported %d invite-history rows\n", len(history))
	return nil
}
