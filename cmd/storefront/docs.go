package main

// @title Storefront API
// @version 1.0
// @description Storefront backend-for-frontend: product browsing over a remote catalog plus a persisted session cart

// @host localhost:8080
// @BasePath /
