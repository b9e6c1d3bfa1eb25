package normalize

import (
	"errors"

	"portfolio/internal/models"
)

// ProfileFields is the alias table for Profile.
var ProfileFields = struct {
	Name, Title, Description, ImageURL             Field
	Email, Phone, Location                         Field
	GithubURL, LinkedinURL, TwitterURL, WebsiteURL Field
}{
	Name:        Field{"name", "name"},
	Title:       Field{"title", "title"},
	Description: Field{"description", "description"},
	ImageURL:    Field{"imageUrl", "image_url"},
	Email:       Field{"email", "email"},
	Phone:       Field{"phone", "phone"},
	Location:    Field{"location", "location"},
	GithubURL:   Field{"githubUrl", "github_url"},
	LinkedinURL: Field{"linkedinUrl", "linkedin_url"},
	TwitterURL:  Field{"twitterUrl", "twitter_url"},
	WebsiteURL:  Field{"websiteUrl", "website_url"},
}

// AboutFields is the alias table for About.
var AboutFields = struct {
	Title, Content Field
}{
	Title:   Field{"title", "title"},
	Content: Field{"content", "content"},
}

// JourneyFields is the alias table for Journey.
var JourneyFields = struct {
	Title, Headline, Content, ImageURL             Field
	WhoIAm, WhatIDo, ShortTermGoals, LongTermGoals Field
	Experience, HowIWork                           Field
}{
	Title:          Field{"title", "title"},
	Headline:       Field{"headline", "headline"},
	Content:        Field{"content", "content"},
	ImageURL:       Field{"imageUrl", "image_url"},
	WhoIAm:         Field{"whoIAm", "who_i_am"},
	WhatIDo:        Field{"whatIDo", "what_i_do"},
	ShortTermGoals: Field{"shortTermGoals", "short_term_goals"},
	LongTermGoals:  Field{"longTermGoals", "long_term_goals"},
	Experience:     Field{"experience", "experience"},
	HowIWork:       Field{"howIWork", "how_i_work"},
}

// DefaultProfile is what the public profile endpoint serves before the
// operator has saved one.
func DefaultProfile() *models.Profile {
	return &models.Profile{
		ID:          models.SingletonID,
		Name:        "Full Stack Developer",
		Title:       "Building Digital Solutions",
		Description: "Creating exceptional web experiences with modern technologies",
	}
}

// DefaultAbout is the placeholder About block.
func DefaultAbout() *models.About {
	return &models.About{
		ID:      models.SingletonID,
		Title:   "About Me",
		Content: "Experienced Full Stack Developer with a passion for creating innovative digital solutions.",
	}
}

// DefaultJourney is the placeholder Journey page.
func DefaultJourney() *models.Journey {
	return &models.Journey{
		ID:    models.SingletonID,
		Title: "My Journey",
	}
}

// ApplyProfile merges the fields present in p onto dst.
func ApplyProfile(dst *models.Profile, p Payload) error {
	f := ProfileFields
	return errors.Join(
		p.SetString(f.Name, &dst.Name),
		p.SetString(f.Title, &dst.Title),
		p.SetString(f.Description, &dst.Description),
		p.SetOptString(f.ImageURL, &dst.ImageURL),
		p.SetOptString(f.Email, &dst.Email),
		p.SetOptString(f.Phone, &dst.Phone),
		p.SetOptString(f.Location, &dst.Location),
		p.SetOptString(f.GithubURL, &dst.GithubURL),
		p.SetOptString(f.LinkedinURL, &dst.LinkedinURL),
		p.SetOptString(f.TwitterURL, &dst.TwitterURL),
		p.SetOptString(f.WebsiteURL, &dst.WebsiteURL),
	)
}

// ProfileDocument emits the wire form of src.
func ProfileDocument(src *models.Profile, mode Mode) Document {
	f := ProfileFields
	d := Document{}
	d.set(IDField, src.ID)
	d.set(f.Name, src.Name)
	d.set(f.Title, src.Title)
	d.set(f.Description, src.Description)
	d.opt(f.ImageURL, src.ImageURL, mode)
	d.opt(f.Email, src.Email, mode)
	d.opt(f.Phone, src.Phone, mode)
	d.opt(f.Location, src.Location, mode)
	d.opt(f.GithubURL, src.GithubURL, mode)
	d.opt(f.LinkedinURL, src.LinkedinURL, mode)
	d.opt(f.TwitterURL, src.TwitterURL, mode)
	d.opt(f.WebsiteURL, src.WebsiteURL, mode)
	d.stamp(updatedAtField, src.UpdatedAt)
	return d
}

// ApplyAbout merges the fields present in p onto dst.
func ApplyAbout(dst *models.About, p Payload) error {
	f := AboutFields
	return errors.Join(
		p.SetString(f.Title, &dst.Title),
		p.SetString(f.Content, &dst.Content),
	)
}

// AboutDocument emits the wire form of src.
func AboutDocument(src *models.About, mode Mode) Document {
	f := AboutFields
	d := Document{}
	d.set(IDField, src.ID)
	d.set(f.Title, src.Title)
	d.set(f.Content, src.Content)
	d.stamp(updatedAtField, src.UpdatedAt)
	return d
}

// ApplyJourney merges the fields present in p onto dst. The list-valued
// sections are stored exactly as sent.
func ApplyJourney(dst *models.Journey, p Payload) error {
	f := JourneyFields
	return errors.Join(
		p.SetString(f.Title, &dst.Title),
		p.SetString(f.Headline, &dst.Headline),
		p.SetString(f.Content, &dst.Content),
		p.SetOptString(f.ImageURL, &dst.ImageURL),
		p.SetString(f.WhoIAm, &dst.WhoIAm),
		p.SetString(f.WhatIDo, &dst.WhatIDo),
		p.SetString(f.ShortTermGoals, &dst.ShortTermGoals),
		p.SetString(f.LongTermGoals, &dst.LongTermGoals),
		p.SetString(f.Experience, &dst.Experience),
		p.SetString(f.HowIWork, &dst.HowIWork),
	)
}

// JourneyDocument emits the wire form of src. Public documents also carry
// the sections split into lines, and pick between the structured sections
// and the legacy content: the legacy body is only served when every
// structured section is blank.
func JourneyDocument(src *models.Journey, mode Mode) Document {
	f := JourneyFields
	d := Document{}
	d.set(IDField, src.ID)
	d.set(f.Title, src.Title)
	d.set(f.Headline, src.Headline)
	d.set(f.Content, src.Content)
	d.opt(f.ImageURL, src.ImageURL, mode)
	d.set(f.WhoIAm, src.WhoIAm)
	d.set(f.WhatIDo, src.WhatIDo)
	d.set(f.ShortTermGoals, src.ShortTermGoals)
	d.set(f.LongTermGoals, src.LongTermGoals)
	d.set(f.Experience, src.Experience)
	d.set(f.HowIWork, src.HowIWork)
	d.stamp(updatedAtField, src.UpdatedAt)

	if mode == Admin {
		return d
	}

	lists := Document{}
	lists.set(f.Headline, SplitLines(src.Headline))
	lists.set(f.WhoIAm, SplitLines(src.WhoIAm))
	lists.set(f.WhatIDo, SplitLines(src.WhatIDo))
	lists.set(f.ShortTermGoals, SplitLines(src.ShortTermGoals))
	lists.set(f.LongTermGoals, SplitLines(src.LongTermGoals))
	lists.set(f.Experience, SplitLines(src.Experience))
	lists.set(f.HowIWork, SplitLines(src.HowIWork))
	d["lists"] = lists

	legacy := !src.HasStructuredContent() && len(SplitLines(src.Content)) > 0
	d["useLegacyContent"] = legacy
	if legacy {
		d["legacyParagraphs"] = SplitLines(src.Content)
	} else {
		d.set(f.Content, "")
		d["legacyParagraphs"] = []string{}
	}
	return d
}
