package store_test

import (
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/manakirana/pos_backend/config"
	"github.com/manakirana/pos_backend/store"
)

func TestDBStoreRoundTrip(t *testing.T) {
	if strings.TrimSpace(os.Getenv("INTEGRATION_TESTS")) == "" {
		t.Skip("set INTEGRATION_TESTS=1 to run integration tests (requires docker)")
	}

	mysqlName, mysqlPort := startMySQLContainer(t)
	t.Cleanup(func() { _ = dockerRmForce(mysqlName) })

	t.Setenv("DB_USER", "root")
	t.Setenv("DB_PASSWORD", "testpw")
	t.Setenv("DB_HOST", "127.0.0.1")
	t.Setenv("DB_PORT", mysqlPort)
	t.Setenv("DB_NAME", "pos_station_test")

	config.ConnectDatabaseWithRetry()
	s := store.NewDBStore(config.GetDB())
	if err := s.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	if _, found, err := s.Load(store.KeyOrdersQueue); err != nil || found {
		t.Fatalf("expected empty store, found=%v err=%v", found, err)
	}

	if err := s.Save(store.KeyOrdersQueue, `[{"_localId":"a"}]`); err != nil {
		t.Fatalf("save: %v", err)
	}
	value, found, err := s.Load(store.KeyOrdersQueue)
	if err != nil || !found {
		t.Fatalf("load after save: found=%v err=%v", found, err)
	}
	if value != `[{"_localId":"a"}]` {
		t.Fatalf("unexpected value %q", value)
	}

	// Saving the same key again must upsert, not duplicate.
	if err := s.Save(store.KeyOrdersQueue, `[]`); err != nil {
		t.Fatalf("second save: %v", err)
	}
	value, _, _ = s.Load(store.KeyOrdersQueue)
	if value != `[]` {
		t.Fatalf("upsert did not overwrite, got %q", value)
	}

	if err := s.Save(store.KeyProducts, `[{"_id":"p1"}]`); err != nil {
		t.Fatalf("save products: %v", err)
	}
	if err := s.Delete(store.KeyProducts); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, found, _ := s.Load(store.KeyProducts); found {
		t.Fatal("deleted key still present")
	}
	// The other key must survive the delete.
	if _, found, _ := s.Load(store.KeyOrdersQueue); !found {
		t.Fatal("sibling key lost by delete")
	}
}

func startMySQLContainer(t *testing.T) (containerName, hostPort string) {
	t.Helper()
	name := fmt.Sprintf("pos-test-mysql-%d", time.Now().UnixNano())
	out, err := dockerRun(
		"run", "-d", "--name", name,
		"-e", "MYSQL_ROOT_PASSWORD=testpw",
		"-e", "MYSQL_DATABASE=pos_station_test",
		"-p", "127.0.0.1:0:3306",
		"mysql:8.0",
		"--default-authentication-plugin=mysql_native_password",
	)
	if err != nil {
		t.Fatalf("start mysql container: %v\n%s", err, out)
	}
	port, err := dockerHostPort(name, "3306/tcp")
	if err != nil {
		t.Fatalf("mysql docker port: %v", err)
	}
	// wait until ready
	deadline := time.Now().Add(120 * time.Second)
	for time.Now().Before(deadline) {
		_, err := dockerRun("exec", name, "mysqladmin", "ping", "-h", "127.0.0.1", "-ptestpw", "--silent")
		if err == nil {
			return name, port
		}
		time.Sleep(500 * time.Millisecond)
	}
	t.Fatalf("mysql did not become ready")
	return "", ""
}

func dockerRun(args ...string) (string, error) {
	out, err := exec.Command("docker", args...).CombinedOutput()
	return string(out), err
}

func dockerHostPort(container, portProto string) (string, error) {
	out, err := dockerRun("port", container, portProto)
	if err != nil {
		return "", fmt.Errorf("docker port: %w: %s", err, out)
	}
	// Example: "127.0.0.1:49154\n"
	re := regexp.MustCompile(`:(\d+)`)
	m := re.FindStringSubmatch(out)
	if len(m) != 2 {
		return "", fmt.Errorf("unexpected docker port output: %q", out)
	}
	return m[1], nil
}

func dockerRmForce(container string) error {
	if strings.TrimSpace(container) == "" {
		return nil
	}
	_, err := dockerRun("rm", "-f", container)
	return err
}
