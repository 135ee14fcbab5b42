package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"lafelle.com/app/internal/catalogapi/catalogfake"
)

// mockcatalog serves an in-memory catalog API with a few seeded products,
// for running the web app without the real backend.
func main() {
	addr := flag.String("addr", ":5000", "Listen address")
	email := flag.String("email", "admin@lafelle.com", "Admin email")
	password := flag.String("password", os.Getenv("MOCK_ADMIN_PASSWORD"), "Admin password")
	empty := flag.Bool("empty", false, "Start without seed data")
	flag.Parse()

	if *password == "" {
		fmt.Fprintf(os.Stderr, "Error: password not provided and MOCK_ADMIN_PASSWORD not set\n")
		os.Exit(1)
	}

	fake := catalogfake.New()
	fake.AddUser(*email, *password, "Admin", "admin")
	if !*empty {
		seed(fake)
	}

	srv := &http.Server{
		Addr:              *addr,
		Handler:           fake.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	log.Printf("mock catalog API on %s (login: %s)", *addr, *email)
	log.Fatal(srv.ListenAndServe())
}

func seed(f *catalogfake.Server) {
	roses := f.AddCategory("Roses", "Fresh cut roses")
	bouquets := f.AddCategory("Bouquets", "Mixed arrangements")
	choc := f.AddCategory("Chocolates", "Handmade chocolates")

	f.AddProduct("Red Roses", "A dozen long-stem red roses", "49.90", roses, "https://images.unsplash.com/photo-1518895949257-7621c3c786d7")
	id := f.AddProduct("White Roses", "Twelve white roses in a box", "59.00", roses, "")
	f.SetOriginalPrice(id, "79.00")
	f.AddProduct("Spring Bouquet", "Tulips, lilies and gerberas", "85.00", bouquets, "")
	f.AddProduct("Grand Bouquet", "Fifty roses with eucalyptus", "750.00", bouquets, "")
	f.AddProduct("Dark Truffles", "Box of 16 dark chocolate truffles", "120.00", choc, "")
	f.AddProduct("Luxury Hamper", "Roses, truffles and champagne", "1500.00", choc, "")
	f.AddProduct("Mini Pralines", "Six assorted pralines", "8.50", choc, "")
}
