package main

import (
	"context"
	"encoding/csv"
	"log"
	"os"
	"strconv"
	"strings"

	"learnhub/config"
	"learnhub/database"
	"learnhub/logger"
	"learnhub/models"
	"learnhub/services"
	"learnhub/store"
)

// Seeds the catalog from a CSV with one row per lesson:
//
//	title,description,price,category,level,tags,section,lesson
//
// tags are separated by '|'. Courses whose slug already exists are skipped.
func main() {
	cfg := config.LoadConfig()
	appLog, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("Failed to initialise logger: %v", err)
	}
	db, err := database.ConnectDb(cfg, appLog)
	if err != nil {
		log.Fatalf("Failed to connect to the database: %v", err)
	}

	path := "courses.csv"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}
	instructorEmail := os.Getenv("SEED_INSTRUCTOR_EMAIL")
	if instructorEmail == "" {
		log.Fatal("SEED_INSTRUCTOR_EMAIL is required")
	}

	ctx := context.Background()
	st := store.New(db)
	svc := services.New(st, cfg, services.Gateways{}, appLog)

	instructor, err := st.Users.FindByEmail(ctx, instructorEmail)
	if err != nil {
		log.Fatalf("Instructor %s not found: %v", instructorEmail, err)
	}
	actor := services.Actor{ID: instructor.ID, Role: instructor.Role}

	file, err := os.Open(path)
	if err != nil {
		log.Fatalf("Failed to open CSV file: %v", err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		log.Fatalf("Failed to read CSV: %v", err)
	}
	if len(records) < 2 {
		log.Fatal("CSV file is empty or has only headers")
	}

	headerIndex := make(map[string]int)
	for i, h := range records[0] {
		headerIndex[strings.TrimSpace(h)] = i
	}
	log.Printf("Total rows to import: %d", len(records)-1)

	courses := make(map[string]*models.Course)
	sections := make(map[string]string)
	inserted, lessons, skipped := 0, 0, 0

	for _, row := range records[1:] {
		title := getField(row, headerIndex, "title")
		if title == "" {
			skipped++
			continue
		}

		course, seen := courses[title]
		if !seen {
			exists, err := st.Courses.Count(ctx, store.CourseFilter{Conditions: []store.Condition{
				{Column: "slug", Op: store.OpEq, Value: models.Slugify(title)},
			}})
			if err != nil {
				log.Fatalf("Failed to look up course %q: %v", title, err)
			}
			if exists > 0 {
				courses[title] = nil
				skipped++
				continue
			}

			description := getField(row, headerIndex, "description")
			category := getField(row, headerIndex, "category")
			price := parseFloat(getField(row, headerIndex, "price"))
			in := services.CourseInput{
				Title:       &title,
				Description: &description,
				Price:       &price,
				Category:    &category,
			}
			if level := getField(row, headerIndex, "level"); level != "" {
				in.Level = &level
			}
			if raw := getField(row, headerIndex, "tags"); raw != "" {
				tags := strings.Split(raw, "|")
				in.Tags = &tags
			}

			course, err = svc.Content.CreateCourse(ctx, actor, in)
			if err != nil {
				log.Printf("Error creating course %q: %v", title, err)
				courses[title] = nil
				continue
			}
			courses[title] = course
			inserted++
		}
		if course == nil {
			skipped++
			continue
		}

		sectionTitle := getField(row, headerIndex, "section")
		lessonTitle := getField(row, headerIndex, "lesson")
		if sectionTitle == "" || lessonTitle == "" {
			continue
		}
		key := course.ID + "/" + sectionTitle
		sectionID, ok := sections[key]
		if !ok {
			section, err := svc.Content.AddSection(ctx, course.ID, actor, sectionTitle)
			if err != nil {
				log.Printf("Error adding section %q to %q: %v", sectionTitle, title, err)
				continue
			}
			sectionID = section.ID
			sections[key] = sectionID
		}
		if _, err := svc.Content.AddLesson(ctx, course.ID, sectionID, actor, services.LessonInput{Title: lessonTitle}); err != nil {
			log.Printf("Error adding lesson %q to %q: %v", lessonTitle, title, err)
			continue
		}
		lessons++
	}

	log.Printf("=== Seed Complete ===")
	log.Printf("Courses inserted: %d", inserted)
	log.Printf("Lessons added: %d", lessons)
	log.Printf("Rows skipped: %d", skipped)
}

// getField safely gets a field from the row by header name
func getField(row []string, headerIndex map[string]int, field string) string {
	if idx, ok := headerIndex[field]; ok && idx < len(row) {
		return strings.TrimSpace(row[idx])
	}
	return ""
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}
