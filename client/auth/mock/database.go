package mock

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/augustosalazar/roble-go/schema"
)

// handleDatabase routes /database/{contract}/{operation} calls.
func (s *Service) handleDatabase(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	if len(parts) != 3 || parts[0] != "database" {
		http.Error(w, "Not found", http.StatusNotFound)
		return
	}
	if parts[1] != s.Contract {
		http.Error(w, "Unknown contract", http.StatusNotFound)
		return
	}
	if !s.authorized(r) {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}
	switch parts[2] {
	case "read":
		s.handleRead(w, r)
	case "insert":
		s.handleInsert(w, r)
	case "update":
		s.handleUpdate(w, r)
	case "delete":
		s.handleDelete(w, r)
	default:
		http.Error(w, "Not found", http.StatusNotFound)
	}
}

func (s *Service) handleRead(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	table := r.URL.Query().Get("tableName")
	if table == "" {
		http.Error(w, "Missing tableName", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	s.ReadCalls++
	records := append([]schema.Record{}, s.tables[table]...)
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, records)
}

func (s *Service) handleInsert(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var request schema.InsertRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}
	if request.TableName == "" || len(request.Records) == 0 {
		http.Error(w, "Missing tableName or records", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	s.InsertCalls++
	for _, record := range request.Records {
		inserted := schema.Record{}
		for k, v := range record {
			inserted[k] = v
		}
		inserted[schema.DefaultIDColumn] = uuid.NewString()
		s.tables[request.TableName] = append(s.tables[request.TableName], inserted)
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, map[string]string{"message": "inserted"})
}

func (s *Service) handleUpdate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var request schema.UpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	s.UpdateCalls++
	updated := false
	for _, record := range s.tables[request.TableName] {
		if value, _ := record[request.IDColumn].(string); value == request.IDValue {
			for k, v := range request.Updates {
				record[k] = v
			}
			updated = true
		}
	}
	s.mu.Unlock()
	if !updated {
		http.Error(w, "Record not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "updated"})
}

func (s *Service) handleDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var request schema.DeleteRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, "Invalid JSON body", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	s.DeleteCalls++
	records := s.tables[request.TableName]
	kept := records[:0]
	deleted := false
	for _, record := range records {
		if value, _ := record[request.IDColumn].(string); value == request.IDValue {
			deleted = true
			continue
		}
		kept = append(kept, record)
	}
	s.tables[request.TableName] = kept
	s.mu.Unlock()
	if !deleted {
		http.Error(w, "Record not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "deleted"})
}
