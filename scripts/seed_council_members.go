package main

import (
	"log"

	"github.com/cicero-foco/cicero/internal/domain/entities"
	"github.com/cicero-foco/cicero/internal/infrastructure/database"
	"github.com/cicero-foco/cicero/pkg/config"
	pkgjwt "github.com/cicero-foco/cicero/pkg/jwt"
)

func intPtr(v int) *int { return &v }

func main() {
	log.Println("🚀 Seeding council members...")

	// Load configuration from .env
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize database
	log.Println("📦 Connecting to database...")
	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.CloseDB(db)

	log.Println("✅ Database connected successfully")

	// Current Fort Collins city council roster
	members := []entities.CouncilMember{
		{Name: "Emily Francis", Role: entities.CouncilRoleMayor, District: nil, Email: "efrancis@fortcollins.gov", IsActive: true},
		{Name: "Julie Pignataro", Role: entities.CouncilRoleMayorProTem, District: intPtr(2), Email: "jpignataro@fortcollins.gov", IsActive: true},
		{Name: "Chris Conway", Role: entities.CouncilRoleCouncilMember, District: intPtr(1), Email: "cconway@fortcollins.gov", IsActive: true},
		{Name: "Josh Fudge", Role: entities.CouncilRoleCouncilMember, District: intPtr(3), Email: "jfudge@fortcollins.gov", IsActive: true},
		{Name: "Melanie Potyondy", Role: entities.CouncilRoleCouncilMember, District: intPtr(4), Email: "mpotyondy@fortcollins.gov", IsActive: true},
		{Name: "Amy Hoeven", Role: entities.CouncilRoleCouncilMember, District: intPtr(5), Email: "ahoeven@fortcollins.gov", IsActive: true},
	}

	seeded := 0
	for i := range members {
		member := members[i]

		var existing entities.CouncilMember
		result := db.Where("name = ?", member.Name).First(&existing)
		if result.Error == nil {
			log.Printf("⏭️  %s already exists, skipping", member.Name)
			continue
		}

		if err := db.Create(&member).Error; err != nil {
			log.Fatalf("Failed to create council member %s: %v", member.Name, err)
		}
		log.Printf("🆕 Seeded %s (%s)", member.Name, member.RoleTitle())
		seeded++
	}

	log.Printf("✅ Seeded %d council member(s)", seeded)

	// Mint an admin token for the pipeline trigger endpoints
	jwtManager := pkgjwt.NewManager(cfg.Admin.JWTSecret, cfg.Admin.TokenExpiry)
	token, err := jwtManager.GenerateAdminToken("seed-script")
	if err != nil {
		log.Fatalf("Failed to generate admin token: %v", err)
	}
	log.Printf("🔑 Admin token (expires in %s):\n%s", cfg.Admin.TokenExpiry, token)
}
