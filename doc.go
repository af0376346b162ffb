// Package main provides the entry point of the Blackwork dashboard.
// Tattoo studios sign up, describe their shop in the onboarding wizard and get
// a voice agent that answers their phone. The dashboard keeps the agent
// settings in sync with the voice platform, connects the studio calendar and
// takes the subscription payment. It runs a fiber web server backed by gorm.
package main
