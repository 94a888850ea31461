package main

import (
	"context"
	"flag"
	"strconv"

	"github.com/trezcool/attendance/core/school"
	"github.com/trezcool/attendance/core/user"
)

func (cli *commandLine) schoolUsage() {
	cli.println("Usage:")
	cli.println("  school show")
	cli.println("  school set -name NAME [-address ADDRESS] [-logo PATH] [-banner PATH]")
	cli.println("  school export                      - PDF of the school profile")
}

func (cli *commandLine) schoolCmd(ctx context.Context, args []string) error {
	if len(args) == 0 {
		cli.schoolUsage()
		return errHelp
	}
	switch args[0] {
	case "show":
		p, err := cli.schSvc.Get(ctx)
		if err != nil {
			return err
		}
		cli.field("Name", p.Name)
		cli.field("Address", p.Address)
		cli.field("Logo", imageInfo(p.Logo))
		cli.field("Banner", imageInfo(p.Banner))
		return nil
	case "set":
		return cli.setSchool(ctx, args[1:])
	case "export":
		p, err := cli.schSvc.Get(ctx)
		if err != nil {
			return err
		}
		return cli.export("school profile", func() (string, error) {
			return cli.exporter.SchoolProfilePDF(p)
		})
	default:
		cli.schoolUsage()
		return errHelp
	}
}

func imageInfo(data []byte) string {
	if len(data) == 0 {
		return "none"
	}
	return strconv.Itoa(len(data)) + " bytes"
}

func (cli *commandLine) setSchool(ctx context.Context, args []string) error {
	var sp school.SaveProfile
	fs := cli.flagSet("school set")
	fs.StringVar(&sp.Name, "name", "", "school name")
	fs.StringVar(&sp.Address, "address", "", "school address")
	logoPath := fs.String("logo", "", "path of the logo image")
	bannerPath := fs.String("banner", "", "path of the banner image")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	var err error
	if sp.Logo, err = readFile(*logoPath); err != nil {
		return err
	}
	if sp.Banner, err = readFile(*bannerPath); err != nil {
		return err
	}
	if _, err := cli.schSvc.Save(ctx, sp); err != nil {
		return err
	}
	cli.success("School profile saved")
	return nil
}

func (cli *commandLine) userUsage() {
	cli.println("Usage:")
	cli.println("  user signup -email EMAIL -name NAME [-question TEXT -answer TEXT] [details]")
	cli.println("  user login -email EMAIL")
	cli.println("  user logout")
	cli.println("  user passwd                        - change the password")
	cli.println("  user recover -email EMAIL [-answer TEXT]")
	cli.println("  user show")
	cli.println("  user edit [details] [-remove-image]")
	cli.println("  user export                        - PDF of the teacher profile")
}

func (cli *commandLine) userCmd(ctx context.Context, args []string) error {
	if len(args) == 0 {
		cli.userUsage()
		return errHelp
	}
	switch args[0] {
	case "signup":
		return cli.signUp(ctx, args[1:])
	case "login":
		return cli.login(ctx, args[1:])
	case "recover":
		return cli.recoverPassword(ctx, args[1:])
	}

	if !cli.usrSvc.IsLoggedIn() {
		return errNotLoggedIn
	}
	switch args[0] {
	case "logout":
		if err := cli.usrSvc.Logout(ctx); err != nil {
			return err
		}
		cli.success("Logged out")
		return nil
	case "passwd":
		return cli.changePassword(ctx)
	case "show":
		return cli.showUser(ctx)
	case "edit":
		return cli.editUser(ctx, args[1:])
	case "export":
		p, err := cli.usrSvc.Get(ctx)
		if err != nil {
			return err
		}
		sch, err := cli.letterhead(ctx)
		if err != nil {
			return err
		}
		return cli.export("teacher profile", func() (string, error) {
			return cli.exporter.UserProfilePDF(sch, p)
		})
	default:
		cli.userUsage()
		return errHelp
	}
}

// detailFlags binds the descriptive profile fields to fs and returns the image path flag.
func detailFlags(fs *flag.FlagSet, d *user.Details) *string {
	fs.StringVar(&d.Name, "name", "", "full name")
	fs.StringVar(&d.Designation, "designation", "", "designation")
	fs.StringVar(&d.Qualification, "qualification", "", "qualification")
	fs.StringVar(&d.TeacherID, "teacher-id", "", "teacher id")
	fs.StringVar(&d.JoiningDate, "joined", "", "joining date (dd-MM-yyyy)")
	fs.StringVar(&d.AssignedClasses, "classes", "", "assigned classes")
	fs.StringVar(&d.SubjectExpert, "subject", "", "subject of expertise")
	fs.StringVar(&d.Phone, "phone", "", "phone number")
	return fs.String("image", "", "path of a photo (jpeg, png or gif)")
}

// newPassword prompts for a password and its confirmation.
func (cli *commandLine) newPassword() (pwd, confirm string, err error) {
	if pwd, err = cli.readPassword("Enter password"); err != nil {
		return "", "", err
	}
	if confirm, err = cli.readPassword("Confirm password"); err != nil {
		return "", "", err
	}
	return pwd, confirm, nil
}

func (cli *commandLine) signUp(ctx context.Context, args []string) error {
	var su user.SignUp
	fs := cli.flagSet("user signup")
	fs.StringVar(&su.Email, "email", "", "email, used to log in")
	fs.StringVar(&su.SecurityQuestion, "question", "", "security question used to recover the password")
	fs.StringVar(&su.SecurityAnswer, "answer", "", "answer to the security question")
	imagePath := detailFlags(fs, &su.Details)
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if su.Email == "" {
		fs.Usage()
		return errHelp
	}

	var err error
	if su.Image, err = readFile(*imagePath); err != nil {
		return err
	}
	if su.Password, su.PasswordConfirm, err = cli.newPassword(); err != nil {
		return err
	}
	p, err := cli.usrSvc.SignUp(ctx, su)
	if err != nil {
		return err
	}
	cli.success("Welcome " + p.Name + "! You are logged in.")
	return nil
}

func (cli *commandLine) login(ctx context.Context, args []string) error {
	fs := cli.flagSet("user login")
	email := fs.String("email", "", "email")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *email == "" {
		fs.Usage()
		return errHelp
	}

	pwd, err := cli.readPassword("Enter password")
	if err != nil {
		return err
	}
	if len(pwd) == 0 {
		fs.Usage()
		return errHelp
	}
	p, err := cli.usrSvc.Login(ctx, *email, pwd)
	if err != nil {
		return err
	}
	cli.success("Logged in as " + p.Name)
	return nil
}

func (cli *commandLine) changePassword(ctx context.Context) error {
	var cp user.ChangePassword
	var err error
	if cp.OldPassword, err = cli.readPassword("Current password"); err != nil {
		return err
	}
	if cp.Password, cp.PasswordConfirm, err = cli.newPassword(); err != nil {
		return err
	}
	if err := cli.usrSvc.ChangePassword(ctx, cp); err != nil {
		return err
	}
	cli.success("Password changed")
	return nil
}

func (cli *commandLine) recoverPassword(ctx context.Context, args []string) error {
	rp := user.RecoverPassword{}
	fs := cli.flagSet("user recover")
	fs.StringVar(&rp.Email, "email", "", "email of the account")
	fs.StringVar(&rp.SecurityAnswer, "answer", "", "answer to the security question")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if rp.Email == "" {
		fs.Usage()
		return errHelp
	}

	question, err := cli.usrSvc.SecurityQuestion(ctx, rp.Email)
	if err != nil {
		return err
	}
	if rp.SecurityAnswer == "" {
		cli.field("Security question", question)
		cli.println("Run again with -answer to reset the password.")
		return nil
	}
	if rp.Password, rp.PasswordConfirm, err = cli.newPassword(); err != nil {
		return err
	}
	if err := cli.usrSvc.RecoverPassword(ctx, rp); err != nil {
		return err
	}
	cli.success("Password reset. You can now log in.")
	return nil
}

func (cli *commandLine) showUser(ctx context.Context) error {
	p, err := cli.usrSvc.Get(ctx)
	if err != nil {
		return err
	}
	cli.field("Name", p.Name)
	cli.field("Email", p.Email)
	cli.field("Designation", p.Designation)
	cli.field("Qualification", p.Qualification)
	cli.field("Teacher ID", p.TeacherID)
	cli.field("Joining Date", p.JoiningDate)
	cli.field("Job Duration", p.CurrentJobDuration())
	cli.field("Classes", p.AssignedClasses)
	cli.field("Subject", p.SubjectExpert)
	cli.field("Phone", p.Phone)
	cli.field("Photo", imageInfo(p.Image))
	return nil
}

func (cli *commandLine) editUser(ctx context.Context, args []string) error {
	var up user.UpdateProfile
	fs := cli.flagSet("user edit")
	imagePath := detailFlags(fs, &up.Details)
	fs.BoolVar(&up.RemoveImage, "remove-image", false, "remove the photo")
	if err := parseFlags(fs, args); err != nil {
		return err
	}

	var err error
	if up.Image, err = readFile(*imagePath); err != nil {
		return err
	}
	if _, err := cli.usrSvc.Save(ctx, up); err != nil {
		return err
	}
	cli.success("Profile saved")
	return nil
}
