package main

import (
	"encoding/json"
	"log"
	"net/http"
	"os"

	"sprintbox/config"
)

func writeJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}

// GetConfigHandler returns the current application config. The portal
// password is masked; an empty password on save keeps the stored one.
func GetConfigHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg := config.GetConfig()
		if cfg.IhkaPassword != "" {
			cfg.IhkaPassword = "********"
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(cfg)
	}
}

func SaveConfigHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var newCfg config.Config
		if err := json.NewDecoder(r.Body).Decode(&newCfg); err != nil {
			writeJSONError(w, "Invalid request body.", http.StatusBadRequest)
			return
		}

		current := config.GetConfig()
		if newCfg.IhkaPassword == "" || newCfg.IhkaPassword == "********" {
			newCfg.IhkaPassword = current.IhkaPassword
		}
		if err := validateFolderPath(newCfg.DownloadDir); err != nil {
			writeJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}

		if err := config.SaveConfig(newCfg); err != nil {
			log.Printf("Error saving config: %v", err)
			writeJSONError(w, "Failed to save config.", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "Config saved."})
	}
}

// validateFolderPath accepts empty or not-yet-existing paths; the
// download dir is created on first use.
func validateFolderPath(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		log.Printf("Error checking folder path: %v", err)
		return err
	}
	if !info.IsDir() {
		return &os.PathError{Op: "stat", Path: path, Err: os.ErrInvalid}
	}
	return nil
}

// ExcludedArticlesHandler serves the comparison exclusion list.
func ExcludedArticlesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(config.LoadExcludedArticles())
		case http.MethodPost:
			var data config.ExcludedArticles
			if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
				writeJSONError(w, "Invalid request body.", http.StatusBadRequest)
				return
			}
			if err := config.SaveExcludedArticles(data); err != nil {
				log.Printf("Error saving excluded articles: %v", err)
				writeJSONError(w, "Failed to save excluded articles.", http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]string{"message": "Excluded articles saved."})
		default:
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		}
	}
}

// PackagingHandler serves the carton/other packaging prefix lists.
func PackagingHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(config.LoadPackaging())
		case http.MethodPost:
			var data config.Packaging
			if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
				writeJSONError(w, "Invalid request body.", http.StatusBadRequest)
				return
			}
			if err := config.SavePackaging(data); err != nil {
				log.Printf("Error saving packaging config: %v", err)
				writeJSONError(w, "Failed to save packaging config.", http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]string{"message": "Packaging config saved."})
		default:
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		}
	}
}

// StrategiesHandler serves the matching strategy configuration.
func StrategiesHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(config.LoadStrategies())
		case http.MethodPost:
			var data config.Strategies
			if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
				writeJSONError(w, "Invalid request body.", http.StatusBadRequest)
				return
			}
			if err := config.SaveStrategies(data); err != nil {
				log.Printf("Error saving strategies: %v", err)
				writeJSONError(w, "Failed to save strategies.", http.StatusInternalServerError)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]string{"message": "Strategies saved."})
		default:
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		}
	}
}
