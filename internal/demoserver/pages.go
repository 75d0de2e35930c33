package demoserver

// PageVersion represents a specific version of a page with its HTML content and headers.
type PageVersion struct {
	HTML        string
	ContentType string
	Headers     map[string]string
}

// PageDefinition holds all versions of a single page.
type PageDefinition struct {
	Path        string
	Description string
	Versions    map[int]PageVersion
}

// GetAllPages returns all demo page definitions.
func GetAllPages() []PageDefinition {
	return []PageDefinition{
		getHomePage(),
		getGenericApplyPage(),
		getWorkdayApplyPage(),
		getGreenhouseApplyPage(),
		getReactApplyPage(),
	}
}

// ===== HOME PAGE =====
func getHomePage() PageDefinition {
	return PageDefinition{
		Path:        "/",
		Description: "Index of the demo application forms",
		Versions: map[int]PageVersion{
			1: {
				HTML: `<!DOCTYPE html>
<html>
<head><title>Formfill Demo Forms</title></head>
<body>
    <h1>Formfill Demo Forms</h1>
    <ul>
        <li><a href="/apply/generic">Generic application form</a></li>
        <li><a href="/apply/workday">Workday-style form (data-automation-id)</a></li>
        <li><a href="/apply/greenhouse">Greenhouse-style form</a></li>
        <li><a href="/apply/react">React-style form (delayed render)</a></li>
    </ul>
    <p>Control panel: <a href="/demo/control">/demo/control</a></p>
</body>
</html>`,
				ContentType: "text/html",
			},
		},
	}
}

// ===== GENERIC APPLICATION FORM =====
func getGenericApplyPage() PageDefinition {
	return PageDefinition{
		Path:        "/apply/generic",
		Description: "Plain HTML application form with conventional field names",
		Versions: map[int]PageVersion{
			1: {
				HTML: `<!DOCTYPE html>
<html>
<head><title>Apply - Software Engineer</title></head>
<body>
    <h1>Apply for Software Engineer</h1>
    <form action="/submit" method="POST" id="application-form">
        <label>First Name <input type="text" name="first_name" id="first_name"></label><br>
        <label>Last Name <input type="text" name="last_name" id="last_name"></label><br>
        <label>Email <input type="email" name="email" id="email"></label><br>
        <label>Phone <input type="tel" name="phone" id="phone"></label><br>
        <label>LinkedIn Profile <input type="url" name="linkedin_url" id="linkedin_url"></label><br>
        <button type="submit">Submit Application</button>
    </form>
    <p>Version 1 - contact details only</p>
</body>
</html>`,
				ContentType: "text/html",
			},
			2: {
				HTML: `<!DOCTYPE html>
<html>
<head><title>Apply - Software Engineer</title></head>
<body>
    <h1>Apply for Software Engineer</h1>
    <form action="/submit" method="POST" id="application-form">
        <label>First Name <input type="text" name="first_name" id="first_name"></label><br>
        <label>Last Name <input type="text" name="last_name" id="last_name"></label><br>
        <label>Email <input type="email" name="email" id="email"></label><br>
        <label>Phone <input type="tel" name="phone" id="phone"></label><br>
        <label>Street Address <input type="text" name="address" id="address"></label><br>
        <label>City <input type="text" name="city" id="city"></label><br>
        <label>Zip / Postal Code <input type="text" name="zip" id="zip"></label><br>
        <label>Country
            <select name="country" id="country">
                <option value="">Select...</option>
                <option value="US">United States</option>
                <option value="CA">Canada</option>
                <option value="GB">United Kingdom</option>
                <option value="DE">Germany</option>
            </select>
        </label><br>
        <label>LinkedIn Profile <input type="url" name="linkedin_url" id="linkedin_url"></label><br>
        <label>Years of Experience <input type="text" name="years_of_experience" id="years_experience"></label><br>
        <label>Do you require visa sponsorship?
            <select name="sponsorship" id="sponsorship">
                <option value="">Select...</option>
                <option value="Yes">Yes</option>
                <option value="No">No</option>
            </select>
        </label><br>
        <label>Cover Letter <textarea name="cover_letter" id="cover_letter" rows="6" cols="50"></textarea></label><br>
        <label><input type="checkbox" name="agree_terms" id="agree_terms"> I agree to the terms</label><br>
        <button type="submit">Submit Application</button>
    </form>
    <p>Version 2 - full application with address, sponsorship and cover letter</p>
</body>
</html>`,
				ContentType: "text/html",
			},
		},
	}
}

// ===== WORKDAY-STYLE FORM =====
func getWorkdayApplyPage() PageDefinition {
	return PageDefinition{
		Path:        "/apply/workday",
		Description: "Workday-style form relying on data-automation-id attributes",
		Versions: map[int]PageVersion{
			1: {
				HTML: `<!DOCTYPE html>
<html>
<head><title>Careers - Apply</title></head>
<body>
    <h1>My Information</h1>
    <div data-automation-id="legalNameSection">
        <label>First Name</label>
        <input data-automation-id="legalNameSection_firstName" type="text">
        <label>Last Name</label>
        <input data-automation-id="legalNameSection_lastName" type="text">
    </div>
    <div data-automation-id="contactInformationSection">
        <label>Email Address</label>
        <input data-automation-id="email" type="text">
        <label>Phone Number</label>
        <input data-automation-id="phone-number" type="text">
    </div>
    <div data-automation-id="addressSection">
        <label>Address Line 1</label>
        <input data-automation-id="addressSection_addressLine1" type="text">
        <label>City</label>
        <input data-automation-id="addressSection_city" type="text">
        <label>Postal Code</label>
        <input data-automation-id="addressSection_postalCode" type="text">
    </div>
    <button data-automation-id="bottom-navigation-next-button">Next</button>
</body>
</html>`,
				ContentType: "text/html",
			},
			2: {
				HTML: `<!DOCTYPE html>
<html>
<head><title>Careers - Apply</title></head>
<body>
    <h1>Application Questions</h1>
    <div data-automation-id="questionnaireSection">
        <label>Are you legally authorized to work?</label>
        <select data-automation-id="workAuthorization">
            <option value="">Select One</option>
            <option value="yes">Yes</option>
            <option value="no">No</option>
        </select>
        <label>Will you require sponsorship?</label>
        <select data-automation-id="sponsorship">
            <option value="">Select One</option>
            <option value="Yes">Yes</option>
            <option value="No">No</option>
        </select>
        <label>LinkedIn</label>
        <input data-automation-id="linkedinQuestion" type="text">
    </div>
    <button data-automation-id="bottom-navigation-next-button">Next</button>
</body>
</html>`,
				ContentType: "text/html",
			},
		},
	}
}

// ===== GREENHOUSE-STYLE FORM =====
func getGreenhouseApplyPage() PageDefinition {
	return PageDefinition{
		Path:        "/apply/greenhouse",
		Description: "Greenhouse-style board form",
		Versions: map[int]PageVersion{
			1: {
				HTML: `<!DOCTYPE html>
<html>
<head><title>Job Application</title></head>
<body>
    <div id="app_body">
        <h1>Apply for this Job</h1>
        <form action="#" method="POST" id="application_form">
            <div id="main_fields">
                <label for="first_name">First Name *</label>
                <input type="text" id="first_name" name="job_application[first_name]">
                <label for="last_name">Last Name *</label>
                <input type="text" id="last_name" name="job_application[last_name]">
                <label for="email">Email *</label>
                <input type="text" id="email" name="job_application[email]">
                <label for="phone">Phone</label>
                <input type="text" id="phone" name="job_application[phone]">
            </div>
            <div id="custom_fields">
                <label>Website</label>
                <input type="text" name="job_application[answers_attributes][0][text_value]" placeholder="LinkedIn URL">
                <label>How did you hear about this job?</label>
                <input type="text" name="job_application[answers_attributes][1][text_value]">
            </div>
            <input type="submit" id="submit_app" value="Submit Application">
        </form>
    </div>
</body>
</html>`,
				ContentType: "text/html",
				Headers: map[string]string{
					"X-Frame-Options": "SAMEORIGIN",
				},
			},
		},
	}
}

// ===== REACT-STYLE FORM =====
func getReactApplyPage() PageDefinition {
	return PageDefinition{
		Path:        "/apply/react",
		Description: "React-style form rendered after a delay; more fields appear on focus",
		Versions: map[int]PageVersion{
			1: {
				HTML: `<!DOCTYPE html>
<html>
<head><title>Apply</title></head>
<body>
    <div id="root"><p>Loading application…</p></div>
    <script>
        // Simulates a client-rendered form: the fields do not exist at load
        // time, and an extra section is inserted after the email field gains
        // focus. Exercises rescan-on-mutation and rescan-on-focus.
        setTimeout(function () {
            document.getElementById('root').innerHTML =
                '<form id="apply">' +
                '<label>First name <input type="text" name="firstName"></label>' +
                '<label>Last name <input type="text" name="lastName"></label>' +
                '<label>Email <input type="email" name="email" id="email"></label>' +
                '</form>';
            document.getElementById('email').addEventListener('focus', function () {
                if (document.getElementById('extra')) return;
                var extra = document.createElement('div');
                extra.id = 'extra';
                extra.innerHTML =
                    '<label>Phone <input type="tel" name="phoneNumber"></label>' +
                    '<label>City <input type="text" name="city"></label>';
                document.getElementById('apply').appendChild(extra);
            });
        }, 400);
    </script>
</body>
</html>`,
				ContentType: "text/html",
			},
		},
	}
}
