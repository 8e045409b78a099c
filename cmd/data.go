package main

import (
	"bytes"
	"encoding/csv"
	"io"
	"io/ioutil"
	"log"
	"path/filepath"
	"strings"
)

// translationTable maps language -> prefixed key -> display text.
type translationTable map[string]map[string]string

func defaultMessages() StatusMessages {
	return StatusMessages{
		Available:   "Available",
		Unavailable: "Checked Out",
		Unknown:     "Status unknown, please ask staff",
		NotForLoan:  "Not for loan",
		Electronic:  "Available online",
	}
}

func (svc *ServiceContext) initDisplayData(dataDir string) {
	log.Printf("Initializing display data...")
	svc.Translations = make(translationTable)
	svc.Messages = make(map[string]StatusMessages)
	svc.Messages["en"] = defaultMessages()

	// Translations data: LANG,KEY,TEXT (key carries its prefix, e.g. location_LS1)
	translationsData, err := ioutil.ReadFile(filepath.Join(dataDir, "translations.csv"))
	if err != nil {
		log.Printf("ERROR: Unable to read translations data: %s", err.Error())
	} else {
		csvReader := csv.NewReader(bytes.NewReader(translationsData))
		for {
			line, readErr := csvReader.Read()
			if readErr == io.EOF {
				break
			}
			if readErr != nil {
				log.Printf("ERROR: Unable to parse translations data: %s", readErr.Error())
				break
			}
			lang := line[0]
			if svc.Translations[lang] == nil {
				svc.Translations[lang] = make(map[string]string)
			}
			svc.Translations[lang][line[1]] = line[2]
		}
	}

	// Messages data: LANG,KEY,TEXT with keys available/unavailable/unknown/notforloan/electronic
	messagesData, err := ioutil.ReadFile(filepath.Join(dataDir, "messages.csv"))
	if err != nil {
		log.Printf("ERROR: Unable to read messages data: %s", err.Error())
	} else {
		csvReader := csv.NewReader(bytes.NewReader(messagesData))
		for {
			line, readErr := csvReader.Read()
			if readErr == io.EOF {
				break
			}
			if readErr != nil {
				log.Printf("ERROR: Unable to parse messages data: %s", readErr.Error())
				break
			}
			lang := line[0]
			messages, ok := svc.Messages[lang]
			if !ok {
				messages = defaultMessages()
			}
			switch line[1] {
			case "available":
				messages.Available = line[2]
			case "unavailable":
				messages.Unavailable = line[2]
			case "unknown":
				messages.Unknown = line[2]
			case "notforloan":
				messages.NotForLoan = line[2]
			case "electronic":
				messages.Electronic = line[2]
			}
			svc.Messages[lang] = messages
		}
	}

	log.Printf("Display data initialization COMPLETE")
}

// messagesFor picks the message set for a request language, falling back to
// English.
func (svc *ServiceContext) messagesFor(lang string) StatusMessages {
	if messages, ok := svc.Messages[lang]; ok {
		return messages
	}
	return svc.Messages["en"]
}

// translator returns the lookup function handed to the decision pipeline.
// Unknown keys fall through to the raw value.
func (svc *ServiceContext) translator(lang string) TranslateFunc {
	table := svc.Translations[lang]
	if table == nil {
		table = svc.Translations["en"]
	}
	return func(prefix, value string) string {
		if text, ok := table[prefix+value]; ok {
			return text
		}
		return value
	}
}

// serviceListRenderer renders the reduced service names through the
// configured template, translating each name first.
func (svc *ServiceContext) serviceListRenderer(lang string) RenderServicesFunc {
	translate := svc.translator(lang)
	return func(services []string) string {
		names := make([]string, len(services))
		for i, s := range services {
			names[i] = translate("service_", s)
		}
		if svc.ServiceTemplate == nil {
			return strings.Join(names, ", ")
		}
		var rendered bytes.Buffer
		err := svc.ServiceTemplate.Execute(&rendered, map[string]interface{}{"Services": names})
		if err != nil {
			log.Printf("ERROR: Unable to render service list: %s", err.Error())
			return strings.Join(names, ", ")
		}
		return strings.TrimSpace(rendered.String())
	}
}
