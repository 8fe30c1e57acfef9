package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"text/tabwriter"
	"time"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	c := newClient(getAPIURL(), tokenFile())
	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "auth":
		err = handleAuth(c, args)
	case "property":
		err = handleProperty(c, args)
	case "saved":
		err = handleSaved(c, args)
	case "message":
		err = handleMessage(c, args)
	case "renter":
		err = handleRenter(c, args)
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "✗ %v\n", err)
		os.Exit(1)
	}
}

// client is a thin JSON client for the RentalConnect API
type client struct {
	baseURL   string
	tokenPath string
	http      *http.Client
}

func newClient(baseURL, tokenPath string) *client {
	return &client{baseURL: baseURL, tokenPath: tokenPath, http: &http.Client{Timeout: 15 * time.Second}}
}

// do sends body as JSON and decodes a 2xx response into out. Non-2xx
// responses are returned as errors carrying the server's message.
func (c *client) do(method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.loadToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		if e.Error == "" {
			e.Error = resp.Status
		}
		return fmt.Errorf("%s (HTTP %d)", e.Error, resp.StatusCode)
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

func (c *client) saveToken(token string) error {
	if err := os.MkdirAll(filepath.Dir(c.tokenPath), 0o700); err != nil {
		return err
	}
	return os.WriteFile(c.tokenPath, []byte(token), 0o600)
}

func (c *client) loadToken() string {
	data, _ := os.ReadFile(c.tokenPath)
	return string(bytes.TrimSpace(data))
}

type authResult struct {
	Token string `json:"token"`
	User  struct {
		ID    string `json:"id"`
		Email string `json:"email"`
		Role  string `json:"role"`
	} `json:"user"`
}

// Auth commands
func handleAuth(c *client, args []string) error {
	if len(args) < 1 {
		fmt.Println("Usage: rentalconnect auth <register|login|logout|who>")
		return nil
	}
	switch args[0] {
	case "register":
		return registerUser(c, args[1:])
	case "login":
		return loginUser(c, args[1:])
	case "logout":
		_ = os.Remove(c.tokenPath)
		fmt.Println("✓ Logged out")
		return nil
	case "who":
		return whoAmI(c)
	default:
		return fmt.Errorf("unknown auth command: %s", args[0])
	}
}

func registerUser(c *client, args []string) error {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "password (8+ characters)")
	role := fs.String("role", "renter", "landlord or renter")
	first := fs.String("first", "", "first name")
	last := fs.String("last", "", "last name")
	_ = fs.Parse(args)

	var res authResult
	err := c.do(http.MethodPost, "/auth/register", map[string]string{
		"email": *email, "password": *password, "role": *role, "firstName": *first, "lastName": *last,
	}, &res)
	if err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}
	if err := c.saveToken(res.Token); err != nil {
		return err
	}
	fmt.Printf("✓ Registered %s as %s\n", res.User.Email, res.User.Role)
	return nil
}

func loginUser(c *client, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "password")
	_ = fs.Parse(args)

	var res authResult
	if err := c.do(http.MethodPost, "/auth/login", map[string]string{"email": *email, "password": *password}, &res); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	if err := c.saveToken(res.Token); err != nil {
		return err
	}
	fmt.Printf("✓ Logged in as %s (%s)\n", res.User.Email, res.User.Role)
	return nil
}

func whoAmI(c *client) error {
	if c.loadToken() == "" {
		fmt.Println("Not logged in")
		return nil
	}
	var profile map[string]any
	if err := c.do(http.MethodGet, "/users/profile", nil, &profile); err != nil {
		return err
	}
	fmt.Printf("✓ %v %v <%v> (%v)\n", profile["firstName"], profile["lastName"], profile["email"], profile["role"])
	return nil
}

// Property commands
func handleProperty(c *client, args []string) error {
	if len(args) < 1 {
		fmt.Println("Usage: rentalconnect property <list|get|create|delete>")
		return nil
	}
	switch args[0] {
	case "list":
		return listProperties(c, args[1:])
	case "get":
		if len(args) < 2 {
			return fmt.Errorf("usage: rentalconnect property get <id>")
		}
		return printJSON(c, http.MethodGet, "/properties/"+url.PathEscape(args[1]), nil)
	case "create":
		return createProperty(c, args[1:])
	case "delete":
		if len(args) < 2 {
			return fmt.Errorf("usage: rentalconnect property delete <id>")
		}
		if err := c.do(http.MethodDelete, "/properties/"+url.PathEscape(args[1]), nil, nil); err != nil {
			return err
		}
		fmt.Println("✓ Property deleted")
		return nil
	default:
		return fmt.Errorf("unknown property command: %s", args[0])
	}
}

type listingRow struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Price    float64 `json:"price"`
	Bedrooms int     `json:"bedrooms"`
	Type     string  `json:"propertyType"`
	Address  struct {
		City string `json:"city"`
	} `json:"address"`
}

func printListings(listings []listingRow) {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tCITY\tPRICE\tBEDS\tTYPE")
	for _, l := range listings {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.0f\t%d\t%s\n", l.ID, l.Title, l.Address.City, l.Price, l.Bedrooms, l.Type)
	}
	w.Flush()
}

func listProperties(c *client, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	city := fs.String("city", "", "city substring")
	minPrice := fs.String("min-price", "", "minimum monthly price")
	maxPrice := fs.String("max-price", "", "maximum monthly price")
	bedrooms := fs.String("bedrooms", "", "exact bedroom count")
	propertyType := fs.String("type", "", "apartment, house, condo, townhouse or studio")
	_ = fs.Parse(args)

	q := url.Values{}
	for key, v := range map[string]string{
		"city": *city, "minPrice": *minPrice, "maxPrice": *maxPrice, "bedrooms": *bedrooms, "propertyType": *propertyType,
	} {
		if v != "" {
			q.Set(key, v)
		}
	}
	path := "/properties"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var listings []listingRow
	if err := c.do(http.MethodGet, path, nil, &listings); err != nil {
		return err
	}
	printListings(listings)
	return nil
}

func createProperty(c *client, args []string) error {
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	file := fs.String("file", "", "JSON file with the listing body (- for stdin)")
	_ = fs.Parse(args)
	if *file == "" {
		return fmt.Errorf("-file is required")
	}

	var data []byte
	var err error
	if *file == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(*file)
	}
	if err != nil {
		return err
	}
	var body map[string]any
	if err := json.Unmarshal(data, &body); err != nil {
		return fmt.Errorf("parse %s: %w", *file, err)
	}

	var created listingRow
	if err := c.do(http.MethodPost, "/properties", body, &created); err != nil {
		return err
	}
	fmt.Printf("✓ Created property %s\n", created.ID)
	return nil
}

// Saved commands
func handleSaved(c *client, args []string) error {
	if len(args) < 1 {
		fmt.Println("Usage: rentalconnect saved <list|add|remove|check>")
		return nil
	}
	if args[0] == "list" {
		var listings []listingRow
		if err := c.do(http.MethodGet, "/saved", nil, &listings); err != nil {
			return err
		}
		printListings(listings)
		return nil
	}
	if len(args) < 2 {
		return fmt.Errorf("usage: rentalconnect saved %s <property-id>", args[0])
	}
	id := url.PathEscape(args[1])

	switch args[0] {
	case "add":
		if err := c.do(http.MethodPost, "/saved/"+id, nil, nil); err != nil {
			return err
		}
		fmt.Println("✓ Saved")
	case "remove":
		if err := c.do(http.MethodDelete, "/saved/"+id, nil, nil); err != nil {
			return err
		}
		fmt.Println("✓ Removed")
	case "check":
		var res struct {
			Saved bool `json:"saved"`
		}
		if err := c.do(http.MethodGet, "/saved/check/"+id, nil, &res); err != nil {
			return err
		}
		fmt.Printf("saved: %t\n", res.Saved)
	default:
		return fmt.Errorf("unknown saved command: %s", args[0])
	}
	return nil
}

// Message commands
func handleMessage(c *client, args []string) error {
	if len(args) < 1 {
		fmt.Println("Usage: rentalconnect message <list|send|read>")
		return nil
	}
	switch args[0] {
	case "list":
		return listMessages(c)
	case "send":
		fs := flag.NewFlagSet("send", flag.ExitOnError)
		to := fs.String("to", "", "receiver account id")
		property := fs.String("property", "", "property id (optional)")
		content := fs.String("content", "", "message text")
		_ = fs.Parse(args[1:])

		var msg struct {
			ID string `json:"id"`
		}
		err := c.do(http.MethodPost, "/messages", map[string]string{
			"receiverId": *to, "propertyId": *property, "content": *content,
		}, &msg)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Sent message %s\n", msg.ID)
		return nil
	case "read":
		if len(args) < 2 {
			return fmt.Errorf("usage: rentalconnect message read <message-id>")
		}
		if err := c.do(http.MethodPut, "/messages/"+url.PathEscape(args[1])+"/read", nil, nil); err != nil {
			return err
		}
		fmt.Println("✓ Marked read")
		return nil
	default:
		return fmt.Errorf("unknown message command: %s", args[0])
	}
}

func listMessages(c *client) error {
	var msgs []struct {
		ID     string `json:"id"`
		Sender struct {
			FirstName string `json:"firstName"`
			LastName  string `json:"lastName"`
		} `json:"sender"`
		Property *struct {
			Title string `json:"title"`
		} `json:"property"`
		Content   string    `json:"content"`
		Read      bool      `json:"read"`
		CreatedAt time.Time `json:"createdAt"`
	}
	if err := c.do(http.MethodGet, "/messages", nil, &msgs); err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tFROM\tPROPERTY\tREAD\tSENT\tCONTENT")
	for _, m := range msgs {
		title := "-"
		if m.Property != nil {
			title = m.Property.Title
		}
		fmt.Fprintf(w, "%s\t%s %s\t%s\t%t\t%s\t%s\n",
			m.ID, m.Sender.FirstName, m.Sender.LastName, title, m.Read, m.CreatedAt.Format(time.DateTime), m.Content)
	}
	w.Flush()
	return nil
}

// Renter commands
func handleRenter(c *client, args []string) error {
	if len(args) < 1 {
		fmt.Println("Usage: rentalconnect renter <list|get>")
		return nil
	}
	switch args[0] {
	case "list":
		var renters []struct {
			ID        string `json:"id"`
			FirstName string `json:"firstName"`
			LastName  string `json:"lastName"`
			Email     string `json:"email"`
		}
		if err := c.do(http.MethodGet, "/renters", nil, &renters); err != nil {
			return err
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tEMAIL")
		for _, r := range renters {
			fmt.Fprintf(w, "%s\t%s %s\t%s\n", r.ID, r.FirstName, r.LastName, r.Email)
		}
		w.Flush()
		return nil
	case "get":
		if len(args) < 2 {
			return fmt.Errorf("usage: rentalconnect renter get <id>")
		}
		return printJSON(c, http.MethodGet, "/renters/"+url.PathEscape(args[1]), nil)
	default:
		return fmt.Errorf("unknown renter command: %s", args[0])
	}
}

func printJSON(c *client, method, path string, body any) error {
	var out json.RawMessage
	if err := c.do(method, path, body, &out); err != nil {
		return err
	}
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, out, "", "  "); err != nil {
		return err
	}
	fmt.Println(pretty.String())
	return nil
}

// Helper functions
func getAPIURL() string {
	if u := os.Getenv("RENTALCONNECT_API"); u != "" {
		return u
	}
	return "http://localhost:8080/api"
}

func tokenFile() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".rentalconnect", "token")
}

func printUsage() {
	fmt.Print(`RentalConnect CLI

Usage:
  rentalconnect <command> [options]

Commands:
  auth       Account authentication (register, login, logout, who)
  property   Listings (list, get, create, delete)
  saved      Saved properties (list, add, remove, check)
  message    Messages (list, send, read)
  renter     Renter directory (list, get)
  help       Show this help message

Environment Variables:
  RENTALCONNECT_API    API endpoint (default: http://localhost:8080/api)

Examples:
  rentalconnect auth register -email jo@example.com -password password123 -role landlord -first Jo -last Lee
  rentalconnect auth login -email jo@example.com -password password123
  rentalconnect property list -city Oakland -min-price 1500 -max-price 2500
  rentalconnect saved add <property-id>
  rentalconnect message send -to <account-id> -property <property-id> -content "Still available?"
`)
}
