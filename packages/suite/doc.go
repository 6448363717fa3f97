// Package suite defines the end-to-end smoke suite for the rental backend.
//
// The suite registers a vendor and a customer, drives a product through
// create, read, update and delete, checks that customers cannot create
// products, books a reservation through an order and cancels it. Every
// email and SKU embeds the run's Unix timestamp so repeated runs never
// collide.
package suite
