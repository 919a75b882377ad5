// Render Exporter is a Prometheus exporter for Render.com usage metrics.
//
// It polls the Render API for services, key value instances, and Postgres
// databases and exposes their CPU, memory, instance count, bandwidth, and
// connection metrics as a Prometheus text feed.
//
// Usage:
//
//	# Start with environment configuration only
//	RENDER_API_KEY=rnd_xxx render-exporter run
//
//	# Start with a configuration file
//	render-exporter run --config /etc/render-exporter/config.yaml
//
//	# Verify the API key and list monitored resources
//	render-exporter check
//
//	# Show version information
//	render-exporter version
package main

func main() {
	Execute()
}
