package prepmod

import (
	"fmt"
	"strings"
)

const waitingRoomPage = `<!DOCTYPE html>
<html>
<head><title>Waiting Room</title></head>
<body>
  <h1>
    You are now in line.
    Your estimated wait time is 12 minutes.
  </h1>
  <p>Please do not refresh this page.</p>
</body>
</html>`

// clinicHTML renders a clinic container the way the search page does.
// An empty heading renders an empty heading paragraph; other empty fields
// are left out of the markup.
func clinicHTML(heading, available, href string) string {
	var sb strings.Builder
	sb.WriteString(`<div class="md:flex-shrink text-gray-800">`)
	if heading != "" {
		fmt.Fprintf(&sb, "\n  <p class=\"text-xl font-black\">\n    %s\n  </p>", heading)
	} else {
		sb.WriteString("\n  <p class=\"text-xl font-black\"></p>")
	}
	sb.WriteString("\n  <p><strong>Location:</strong> 1 Patriot Pl, Foxborough MA, 02035</p>")
	sb.WriteString("\n  <p><strong>Vaccinations offered:</strong> Moderna COVID-19 Vaccine</p>")
	if available != "" {
		fmt.Fprintf(&sb, "\n  <p><strong>Available Appointments:</strong> %s</p>", available)
	}
	if href != "" {
		fmt.Fprintf(&sb, "\n  <p class=\"my-3 flex\"><a href=\"%s\" class=\"button-primary\">Sign Up for a COVID-19 Vaccination</a></p>", href)
	}
	sb.WriteString("\n</div>")
	return sb.String()
}

// resultsPage wraps clinic containers in the search results layout.
func resultsPage(clinics ...string) string {
	var sb strings.Builder
	sb.WriteString(`<!DOCTYPE html>
<html>
<head><title>Home | Massachusetts Vaccination Scheduling</title></head>
<body>
<div class="main-container">
  <div class="mt-24 border-t border-gray-200">`)
	for _, c := range clinics {
		sb.WriteString("\n    <div class=\"md:flex justify-between -mx-2 md:mx-0 px-2 md:px-4 pt-4 pb-4 border-b border-gray-200\">\n")
		sb.WriteString(c)
		sb.WriteString("\n    </div>")
	}
	sb.WriteString(`
  </div>
</div>
</body>
</html>`)
	return sb.String()
}
