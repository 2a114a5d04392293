package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// Global flags
	apiURL := "http://localhost:8000"
	if envURL := os.Getenv("API_URL"); envURL != "" {
		apiURL = envURL
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "clinic":
		clinicCmd(apiURL, args)
	case "populate":
		populateCmd(apiURL, args)
	case "list":
		listCmd(apiURL, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Clinic Simulator - Development tool for seeding doctors and patients

USAGE:
  simulator <command> [options]

COMMANDS:
  clinic    Register a new doctor and provision patients under them
  populate  Provision more patients for an existing doctor
  list      List the patients supervised by a doctor
  help      Show this help message

ENVIRONMENT:
  API_URL   Backend API URL (default: http://localhost:8000)

EXAMPLES:
  # New doctor with 5 directly provisioned patients
  simulator clinic

  # New doctor with 3 self-service patients
  simulator clinic --count=3 --self-service

  # Add 2 patients to an existing doctor
  simulator populate --slmc=LIC1 --password=Pw12345 --count=2

  # Show a doctor's patients
  simulator list --slmc=LIC1 --password=Pw12345`)
}

func clinicCmd(apiURL string, args []string) {
	fs := flag.NewFlagSet("clinic", flag.ExitOnError)
	count := fs.Int("count", 5, "Number of patients to provision")
	selfService := fs.Bool("self-service", false, "Use the self-service provisioning entry point")
	password := fs.String("password", "Passw0rd!", "Password for the new doctor")
	fs.Parse(args)

	if *count < 0 || *count > 100 {
		fmt.Println("Error: --count must be between 0 and 100")
		os.Exit(1)
	}

	client := NewAPIClient(apiURL)

	fmt.Println("=== Clinic Simulator ===")
	fmt.Println()

	suffix := strings.ToUpper(uuid.NewString()[:6])
	reg := DoctorRegistration{
		Email:     fmt.Sprintf("doctor-%s@example.com", strings.ToLower(suffix)),
		SLMCID:    "SIM-" + suffix,
		Password:  *password,
		FirstName: "Sim",
		LastName:  "Doctor " + suffix,
	}

	fmt.Print("Registering doctor... ")
	session, err := client.RegisterDoctor(reg)
	if err != nil {
		fmt.Printf("FAILED\n  Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("OK (slmc_id: %s)\n", reg.SLMCID)

	seeded, err := seedPatients(client, session.AccessToken, *count, *selfService)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	fmt.Println("=========================================")
	fmt.Println("  CLINIC READY")
	fmt.Println("=========================================")
	fmt.Println()
	fmt.Printf("  Doctor login:  slmc_id=%s password=%s\n", reg.SLMCID, reg.Password)
	printCredentials(seeded)
}

func populateCmd(apiURL string, args []string) {
	fs := flag.NewFlagSet("populate", flag.ExitOnError)
	slmcID := fs.String("slmc", "", "Doctor SLMC identifier (required)")
	password := fs.String("password", "", "Doctor password (required)")
	count := fs.Int("count", 5, "Number of patients to provision")
	selfService := fs.Bool("self-service", false, "Use the self-service provisioning entry point")
	fs.Parse(args)

	if *slmcID == "" || *password == "" {
		fmt.Println("Error: --slmc and --password are required")
		fmt.Println("\nUsage: simulator populate --slmc=LIC1 --password=secret [--count=5]")
		os.Exit(1)
	}

	client := NewAPIClient(apiURL)

	session, err := client.DoctorLogin(*slmcID, *password)
	if err != nil {
		fmt.Printf("Failed to log in: %v\n", err)
		os.Exit(1)
	}

	seeded, err := seedPatients(client, session.AccessToken, *count, *selfService)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println()
	printCredentials(seeded)
}

func listCmd(apiURL string, args []string) {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	slmcID := fs.String("slmc", "", "Doctor SLMC identifier (required)")
	password := fs.String("password", "", "Doctor password (required)")
	fs.Parse(args)

	if *slmcID == "" || *password == "" {
		fmt.Println("Error: --slmc and --password are required")
		os.Exit(1)
	}

	client := NewAPIClient(apiURL)

	session, err := client.DoctorLogin(*slmcID, *password)
	if err != nil {
		fmt.Printf("Failed to log in: %v\n", err)
		os.Exit(1)
	}

	patients, err := client.ListPatients(session.AccessToken)
	if err != nil {
		fmt.Printf("Failed to list patients: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("%d patient(s):\n", len(patients))
	for _, p := range patients {
		fmt.Printf("  %-16s %s %s\n", p.Username, p.FirstName, p.LastName)
	}
}

// seedPatients provisions count patients and confirms each generated
// credential pair can log in.
func seedPatients(client *APIClient, doctorToken string, count int, selfService bool) ([]*ProvisionResponse, error) {
	mode := "direct"
	if selfService {
		mode = "self-service"
	}
	fmt.Printf("Provisioning %d patient(s) (%s):\n", count, mode)

	seeded := make([]*ProvisionResponse, 0, count)
	for i := 0; i < count; i++ {
		patient := NewPatient{
			FirstName: "Patient",
			LastName:  fmt.Sprintf("%02d", i+1),
			Age:       65 + i%20,
		}
		if selfService {
			patient.Email = fmt.Sprintf("patient-%s@example.com", uuid.NewString()[:8])
		}

		created, err := client.ProvisionPatient(doctorToken, patient, selfService)
		if err != nil {
			return seeded, fmt.Errorf("patient %d: %w", i+1, err)
		}

		if _, err := client.PatientLogin(created.Username, created.Password); err != nil {
			return seeded, fmt.Errorf("patient %d login check: %w", i+1, err)
		}

		seeded = append(seeded, created)
		fmt.Printf("  [%d/%d] %s created\n", i+1, count, created.Username)
	}
	return seeded, nil
}

func printCredentials(seeded []*ProvisionResponse) {
	if len(seeded) == 0 {
		return
	}
	fmt.Println("  Patient logins:")
	for _, p := range seeded {
		fmt.Printf("    username=%s password=%s\n", p.Username, p.Password)
	}
	fmt.Println()
}
