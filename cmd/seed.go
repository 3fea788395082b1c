package cmd

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"time"

	"lecture-manager/internal/config"
	domain "lecture-manager/internal/domain/registration"
	"lecture-manager/pkg/logger"

	"github.com/spf13/cobra"
)

var (
	seedLectures        int
	seedSessionsPerLect int
	seedStudents        int
	seedRegistrations   int
	seedCapacity        int
	seedRandom          int64
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load sample lectures, sessions, students and registrations",
	Long: `Populate the store with generated sample data. Registrations go through
the regular registration path, so full sessions simply reject extra attempts.`,
	Run: func(cmd *cobra.Command, args []string) {
		runSeed()
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)

	seedCmd.Flags().IntVar(&seedLectures, "lectures", 10, "Number of lectures to create")
	seedCmd.Flags().IntVar(&seedSessionsPerLect, "sessions", 2, "Sessions per lecture")
	seedCmd.Flags().IntVar(&seedStudents, "students", 50, "Number of students to create")
	seedCmd.Flags().IntVar(&seedRegistrations, "registrations", 150, "Registration attempts to make")
	seedCmd.Flags().IntVar(&seedCapacity, "capacity", 20, "Maximum capacity per session")
	seedCmd.Flags().Int64Var(&seedRandom, "random-seed", 1, "Seed for the data generator")
}

var (
	seedCategories = []string{
		"Science", "Technology", "Arts", "Business", "Education",
		"Health", "Social Sciences", "Engineering", "Humanities", "Other",
	}
	seedTitles = []string{
		"Introduction to", "Advanced Concepts in", "Fundamentals of",
		"Modern Approaches to", "Principles of", "The Science of",
		"Understanding", "Exploring", "Mastering", "Deep Dive into",
	}
	seedSubjects = []string{
		"Artificial Intelligence", "Machine Learning", "Data Science",
		"Web Development", "Cloud Computing", "Cybersecurity",
		"Distributed Systems", "Databases", "Robotics", "Project Management",
		"Environmental Science", "Software Engineering",
	}
	seedFirstNames = []string{"Anna", "Ben", "Clara", "David", "Emma", "Felix", "Greta", "Henri", "Ida", "Jonas"}
	seedLastNames  = []string{"Meyer", "Schmidt", "Fischer", "Weber", "Wagner", "Becker", "Hoffmann", "Koch", "Richter", "Klein"}
)

func runSeed() {
	cfg := config.Get()
	ctx := context.Background()

	app, err := newApplication(ctx, cfg, true)
	if err != nil {
		logger.Error("Failed to start: %v", err)
		os.Exit(1)
	}
	defer app.Close()

	rng := rand.New(rand.NewSource(seedRandom))

	var sessionIDs []int64
	start := time.Now().UTC().Truncate(time.Hour).Add(24 * time.Hour)
	for i := 0; i < seedLectures; i++ {
		category := seedCategories[rng.Intn(len(seedCategories))]
		description := fmt.Sprintf("Sample lecture %d", i+1)
		lecture, err := app.deps.Catalog.CreateLecture(ctx, &domain.CreateLectureRequest{
			LectureName: fmt.Sprintf("%s %s", seedTitles[rng.Intn(len(seedTitles))], seedSubjects[rng.Intn(len(seedSubjects))]),
			Description: &description,
			Category:    &category,
		})
		if err != nil {
			logger.Error("Failed to create lecture: %v", err)
			os.Exit(1)
		}

		for j := 0; j < seedSessionsPerLect; j++ {
			session, err := app.deps.Catalog.CreateSession(ctx, &domain.CreateSessionRequest{
				LectureID:   lecture.ID,
				SessionTime: start.Add(time.Duration(rng.Intn(60*24)) * time.Hour),
				Capacity:    1 + rng.Intn(seedCapacity),
			})
			if err != nil {
				logger.Error("Failed to create session: %v", err)
				os.Exit(1)
			}
			sessionIDs = append(sessionIDs, session.ID)
		}
	}

	var studentIDs []int64
	runID := time.Now().Unix()
	for i := 0; i < seedStudents; i++ {
		first := seedFirstNames[rng.Intn(len(seedFirstNames))]
		last := seedLastNames[rng.Intn(len(seedLastNames))]
		student, err := app.deps.Students.CreateStudent(ctx, &domain.CreateStudentRequest{
			FirstName: first,
			LastName:  last,
			Email:     fmt.Sprintf("student%d.%d@example.com", runID, i+1),
		})
		if err != nil {
			logger.Error("Failed to create student: %v", err)
			os.Exit(1)
		}
		studentIDs = append(studentIDs, student.ID)
	}

	registered, rejected := 0, 0
	if len(sessionIDs) > 0 && len(studentIDs) > 0 {
		for i := 0; i < seedRegistrations; i++ {
			studentID := studentIDs[rng.Intn(len(studentIDs))]
			sessionID := sessionIDs[rng.Intn(len(sessionIDs))]
			err := app.deps.Registrations.Register(ctx, studentID, sessionID)
			switch {
			case err == nil:
				registered++
			case errors.Is(err, domain.ErrCapacityExceeded), errors.Is(err, domain.ErrDuplicateRegistration):
				rejected++
			default:
				logger.Error("Failed to register student %d for session %d: %v", studentID, sessionID, err)
				os.Exit(1)
			}
		}
	}

	fmt.Printf("Seeded %d lectures, %d sessions, %d students, %d registrations (%d rejected as full or duplicate)\n",
		seedLectures, len(sessionIDs), len(studentIDs), registered, rejected)
}
