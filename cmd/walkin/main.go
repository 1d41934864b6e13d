package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"github.com/ukydev/workshop-walkin/internal/api"
	"github.com/ukydev/workshop-walkin/internal/auth"
	"github.com/ukydev/workshop-walkin/internal/customers"
	"github.com/ukydev/workshop-walkin/internal/models"
	"github.com/ukydev/workshop-walkin/internal/workflow"
)

func main() {
	// .env is optional; real deployments set the variables directly
	_ = godotenv.Load()

	apiURL := os.Getenv("WALKIN_API_URL")
	if apiURL == "" {
		apiURL = "http://localhost:5000"
	}

	client := api.NewClient(apiURL, auth.NewEnvTokenSource("WALKIN_API_TOKEN"))
	session := workflow.NewSession(client)
	ctx := context.Background()

	log.WithField("api", apiURL).Info("starting walk-in session")
	for _, err := range session.Start(ctx) {
		log.WithError(err).Warn("startup load failed; continuing with partial data")
	}

	in := bufio.NewScanner(os.Stdin)

	customer := resolveCustomer(ctx, in, session)
	vehicle := resolveVehicle(ctx, in, session, customer)
	if err := session.Composer.SelectCustomer(customer); err != nil {
		log.WithError(err).Fatal("could not select customer")
	}
	if err := session.Composer.SelectVehicle(vehicle); err != nil {
		log.WithError(err).Fatal("could not select vehicle")
	}

	pickService(in, session)
	pickInspection(in, session)
	pickMechanic(in, session)

	fmt.Print("Notes (optional): ")
	if in.Scan() {
		_ = session.Composer.SetNotes(strings.TrimSpace(in.Text()))
	}

	if result := session.Composer.Validate(); !result.Valid {
		for _, f := range result.Fields {
			fmt.Printf("  ! %s: %s\n", f.Field, f.Message)
		}
		log.Fatal("composition incomplete; aborting")
	}

	fmt.Printf("Total: %.2f — submit? [y/N]: ", session.Composer.TotalAmount())
	if !in.Scan() || !strings.EqualFold(strings.TrimSpace(in.Text()), "y") {
		fmt.Println("Cancelled.")
		return
	}

	bill, route, err := session.Submit(ctx)
	if err != nil {
		log.WithError(err).Fatal("submission failed")
	}
	printBill(bill)
	if route == workflow.RouteInspection {
		fmt.Println("Next: inspection intake desk.")
	} else {
		fmt.Println("Next: service bay hand-off.")
	}
}

func resolveCustomer(ctx context.Context, in *bufio.Scanner, session *workflow.Session) *models.Customer {
	for {
		fmt.Print("Search customer (or 'new'): ")
		if !in.Scan() {
			os.Exit(0)
		}
		term := strings.TrimSpace(in.Text())
		if strings.EqualFold(term, "new") {
			return createCustomer(ctx, in, session)
		}

		found, err := session.Resolver.SearchCustomers(ctx, term)
		if err != nil {
			log.WithError(err).Error("search failed")
			continue
		}
		if len(found) == 0 {
			fmt.Println("No matches.")
			continue
		}
		for i, c := range found {
			fmt.Printf("  [%d] %s <%s> %s\n", i+1, c.Name, c.Email, c.Phone)
		}
		if idx, ok := pickIndex(in, len(found)); ok {
			return &found[idx]
		}
	}
}

func createCustomer(ctx context.Context, in *bufio.Scanner, session *workflow.Session) *models.Customer {
	input := customers.NewCustomerInput{
		Name:    prompt(in, "Name"),
		Email:   prompt(in, "Email"),
		Phone:   prompt(in, "Phone"),
		Address: prompt(in, "Address (optional)"),
	}
	created, err := session.Resolver.CreateCustomer(ctx, input)
	if err != nil {
		log.WithError(err).Fatal("could not create customer")
	}
	// the account was created on the customer's behalf; hand the login over
	fmt.Printf("Account created — username: %s  password: %s\n",
		created.Credentials.Username, created.Credentials.Password)
	return &created.Customer
}

func resolveVehicle(ctx context.Context, in *bufio.Scanner, session *workflow.Session, customer *models.Customer) *models.Vehicle {
	vehicles, err := session.Resolver.ListVehicles(ctx, customer.UserID)
	if err != nil {
		log.WithError(err).Warn("could not list vehicles")
	}
	if len(vehicles) > 0 {
		for i, v := range vehicles {
			fmt.Printf("  [%d] %d %s %s (%s)\n", i+1, v.Year, v.Make, v.Model, v.LicensePlate)
		}
		fmt.Println("  [0] register a new vehicle")
		if idx, ok := pickIndex(in, len(vehicles)); ok {
			return &vehicles[idx]
		}
	}

	input := customers.NewVehicleInput{
		Make:         prompt(in, "Make"),
		Model:        prompt(in, "Model"),
		Year:         promptInt(in, "Year"),
		LicensePlate: prompt(in, "License plate"),
	}
	vehicle, err := session.Resolver.CreateVehicle(ctx, customer.UserID, input)
	if err != nil {
		log.WithError(err).Fatal("could not create vehicle")
	}
	return vehicle
}

func pickService(in *bufio.Scanner, session *workflow.Session) {
	if len(session.Offerings.Regular) == 0 {
		fmt.Println("No regular services available.")
		return
	}
	fmt.Println("Services ([0] to skip):")
	for i, s := range session.Offerings.Regular {
		fmt.Printf("  [%d] %s — %.2f\n", i+1, s.ServiceName, s.Price)
	}
	if idx, ok := pickIndex(in, len(session.Offerings.Regular)); ok {
		if err := session.Composer.SelectService(&session.Offerings.Regular[idx]); err != nil {
			log.WithError(err).Error("could not select service")
		}
	}
}

func pickInspection(in *bufio.Scanner, session *workflow.Session) {
	fmt.Print("Include inspection? [y/N]: ")
	if !in.Scan() || !strings.EqualFold(strings.TrimSpace(in.Text()), "y") {
		return
	}
	if err := session.Composer.SetIncludesInspection(true); err != nil {
		log.WithError(err).Error("could not enable inspection")
		return
	}
	if len(session.Offerings.Inspections) == 0 {
		fmt.Println("No inspection types available.")
		return
	}
	fmt.Println("Inspection types:")
	for i, s := range session.Offerings.Inspections {
		fmt.Printf("  [%d] %s — %.2f\n", i+1, s.ServiceName, s.Price)
	}
	if idx, ok := pickIndex(in, len(session.Offerings.Inspections)); ok {
		if err := session.Composer.SelectInspection(&session.Offerings.Inspections[idx]); err != nil {
			log.WithError(err).Error("could not select inspection")
		}
	}
}

func pickMechanic(in *bufio.Scanner, session *workflow.Session) {
	selectable := session.Mechanics.Selectable()
	if len(selectable) == 0 {
		fmt.Println("No mechanics available right now.")
		return
	}
	fmt.Println("Mechanics:")
	for i, m := range selectable {
		fmt.Printf("  [%d] %s (%d active)\n", i+1, m.Name, m.CurrentAppointments)
	}
	if idx, ok := pickIndex(in, len(selectable)); ok {
		if err := session.Composer.SelectMechanic(&selectable[idx]); err != nil {
			log.WithError(err).Error("could not select mechanic")
		}
	}
}

func printBill(bill *models.Bill) {
	fmt.Printf("\n=== Bill #%d (order #%d) ===\n", bill.BillID, bill.OrderID)
	for _, line := range bill.Lines {
		fmt.Printf("  %-30s %10.2f\n", line.Description, line.Amount)
	}
	fmt.Printf("  %-30s %10.2f\n", "Total", bill.TotalAmount)
}

func prompt(in *bufio.Scanner, label string) string {
	fmt.Printf("%s: ", label)
	if !in.Scan() {
		os.Exit(0)
	}
	return strings.TrimSpace(in.Text())
}

func promptInt(in *bufio.Scanner, label string) int {
	for {
		raw := prompt(in, label)
		if n, err := strconv.Atoi(raw); err == nil {
			return n
		}
		fmt.Println("Enter a number.")
	}
}

// pickIndex reads a 1-based choice; 0 or invalid input means "none".
func pickIndex(in *bufio.Scanner, max int) (int, bool) {
	fmt.Print("Choice: ")
	if !in.Scan() {
		os.Exit(0)
	}
	n, err := strconv.Atoi(strings.TrimSpace(in.Text()))
	if err != nil || n < 1 || n > max {
		return 0, false
	}
	return n - 1, true
}
